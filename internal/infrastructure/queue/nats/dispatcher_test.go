package nats

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRequestDispatcherRunsHandlersConcurrently(t *testing.T) {
	d := newRequestDispatcher(2)
	started := make(chan struct{}, 3)
	release := make(chan struct{})

	for i := 0; i < 2; i++ {
		d.Dispatch(func() {
			started <- struct{}{}
			<-release
		})
	}
	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatalf("handler %d did not start while another was still running", i+1)
		}
	}

	var thirdRan atomic.Bool
	dispatched := make(chan struct{})
	go func() {
		d.Dispatch(func() { thirdRan.Store(true) })
		close(dispatched)
	}()

	select {
	case <-dispatched:
		t.Fatalf("dispatch must block while every slot is busy")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-dispatched:
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatch did not resume after slots were released")
	}
	d.Wait()
	if !thirdRan.Load() {
		t.Fatalf("queued handler did not run")
	}
}

func TestRequestDispatcherDefaultsToOneSlot(t *testing.T) {
	d := newRequestDispatcher(0)
	var running, peak atomic.Int32
	for i := 0; i < 4; i++ {
		d.Dispatch(func() {
			n := running.Add(1)
			if n > peak.Load() {
				peak.Store(n)
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		})
	}
	d.Wait()
	if peak.Load() != 1 {
		t.Fatalf("expected serial handling, peak concurrency %d", peak.Load())
	}
}
