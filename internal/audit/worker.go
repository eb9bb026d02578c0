package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from the publisher's inbox and fans them out
// to the configured stores. Sink failures are logged, never propagated; the
// audit trail is best effort.
type Worker struct {
	inbox  <-chan Event
	stores []Store
	logger *slog.Logger
}

// NewWorker builds a worker over one or more sinks.
func NewWorker(inbox <-chan Event, logger *slog.Logger, stores ...Store) *Worker {
	return &Worker{inbox: inbox, stores: stores, logger: logger}
}

// Run drains the inbox until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			for _, store := range w.stores {
				if err := store.Append(ctx, event); err != nil {
					w.logger.WarnContext(ctx, "audit append failed",
						"action", string(event.Action),
						"error", err,
					)
				}
			}
		}
	}
}
