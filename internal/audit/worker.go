package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and hands them to the sink.
// It keeps background processing off the request path.
type Worker struct {
	sink   Sink
	inbox  chan Event
	logger *slog.Logger
}

// NewWorker builds a worker plus the publisher feeding it. buffer bounds how
// many events may be in flight before Emit starts dropping.
func NewWorker(sink Sink, buffer int, logger *slog.Logger) (*Worker, *Publisher) {
	inbox := make(chan Event, buffer)
	return &Worker{sink: sink, inbox: inbox, logger: logger}, &Publisher{inbox: inbox}
}

// Run drains the inbox until ctx is canceled. Sink failures are logged and
// skipped; auditing never takes the portal down.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				w.logger.Warn("audit append failed",
					"action", string(event.Action),
					"error", err.Error(),
				)
			}
		}
	}
}
