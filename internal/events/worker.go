package events

import (
	"context"
	"log/slog"
)

// Channel is a Publisher that hands events to a Worker through a buffered
// channel, keeping broker latency out of the request path. When the buffer
// is full the event is dropped and logged; notifications are observability,
// not ledger state.
type Channel struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewChannel constructs the channel publisher and the inbox a Worker drains.
func NewChannel(size int, logger *slog.Logger) *Channel {
	return &Channel{inbox: make(chan Event, size), logger: logger}
}

func (c *Channel) Publish(ctx context.Context, event Event) error {
	select {
	case c.inbox <- event:
	default:
		c.logger.WarnContext(ctx, "event inbox full, dropping event",
			"event_id", event.ID,
			"event_type", string(event.Type),
		)
	}
	return nil
}

// Inbox exposes the channel for the Worker.
func (c *Channel) Inbox() <-chan Event {
	return c.inbox
}

// Worker drains an inbox into a sink publisher. It keeps background delivery
// testable without wiring a broker.
type Worker struct {
	sink   Publisher
	inbox  <-chan Event
	logger *slog.Logger
}

// NewWorker constructs a Worker draining inbox into sink.
func NewWorker(sink Publisher, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run delivers events until ctx is done. Delivery failures are logged and
// skipped; the worker never gives up on later events.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Publish(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to publish event",
					"event_id", event.ID,
					"event_type", string(event.Type),
					"error", err,
				)
			}
		}
	}
}
