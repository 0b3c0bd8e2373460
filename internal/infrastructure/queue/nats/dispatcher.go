package nats

import "golang.org/x/sync/errgroup"

// requestDispatcher runs request handlers on at most limit goroutines.
// Dispatch blocks the caller while every slot is taken.
type requestDispatcher struct {
	group errgroup.Group
}

func newRequestDispatcher(limit int) *requestDispatcher {
	if limit <= 0 {
		limit = 1
	}
	d := &requestDispatcher{}
	d.group.SetLimit(limit)
	return d
}

func (d *requestDispatcher) Dispatch(fn func()) {
	d.group.Go(func() error {
		fn()
		return nil
	})
}

// Wait returns once every dispatched handler has finished.
func (d *requestDispatcher) Wait() {
	_ = d.group.Wait()
}
