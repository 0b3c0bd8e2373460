package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/acrossmena/hs-classifier/internal/core/ports"
	"github.com/acrossmena/hs-classifier/internal/infrastructure/resilience"
)

// Queue carries classification traffic over NATS: request-reply classify
// calls and fire-and-forget classification events.
type Queue struct {
	conn          *nats.Conn
	eventsSubject string
	executor      *resilience.Executor
}

type Options struct {
	ClientName           string
	EventsSubject        string
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func New(url string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}
	name := options.ClientName
	if name == "" {
		name = "hs-classifier"
	}

	conn, err := nats.Connect(
		url,
		nats.Name(name),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:          conn,
		eventsSubject: options.EventsSubject,
		executor:      options.ResilienceExecutor,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

// PublishClassification implements ports.EventPublisher.
func (q *Queue) PublishClassification(ctx context.Context, event ports.ClassificationEvent) error {
	if q.eventsSubject == "" {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal classification event: %w", err)
	}

	call := func(_ context.Context) error {
		if err := q.conn.Publish(q.eventsSubject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	return wrapTemporaryIfNeeded(err)
}

// ServeRequests answers request-reply messages on subject within queue
// group until ctx is done. nats.go delivers a subscription's messages on a
// single goroutine, so handlers run on up to concurrency goroutines and
// delivery blocks while all of them are busy. handler must always return a
// reply payload.
func (q *Queue) ServeRequests(
	ctx context.Context,
	subject, group string,
	concurrency int,
	handler func(context.Context, []byte) []byte,
) error {
	dispatcher := newRequestDispatcher(concurrency)
	defer dispatcher.Wait()

	sub, err := q.conn.QueueSubscribe(subject, group, func(msg *nats.Msg) {
		if ctx.Err() != nil {
			return
		}
		dispatcher.Dispatch(func() {
			reply := handler(ctx, msg.Data)
			if msg.Reply == "" {
				return
			}
			if err := msg.Respond(reply); err != nil {
				slog.Warn("nats_respond_failed", "subject", subject, "error", err)
			}
		})
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}
	return q.serve(ctx, sub)
}

// SubscribeEvents delivers classification events of the events subject to
// handler until ctx is done.
func (q *Queue) SubscribeEvents(ctx context.Context, group string, handler func(context.Context, ports.ClassificationEvent) error) error {
	sub, err := q.conn.QueueSubscribe(q.eventsSubject, group, func(msg *nats.Msg) {
		if ctx.Err() != nil {
			return
		}
		var event ports.ClassificationEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Warn("classification_event_decode_failed", "error", err)
			return
		}
		if err := handler(ctx, event); err != nil {
			slog.Warn("classification_event_handler_failed", "event_id", event.ID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", q.eventsSubject, err)
	}
	return q.serve(ctx, sub)
}

func (q *Queue) serve(ctx context.Context, sub *nats.Subscription) error {
	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}
