// Package eventlog implements the event emitter port as a structured log
// sink. Every domain event becomes one JSON log record, which downstream
// tooling can tail as an append-only feed.
package eventlog

import (
	"context"
	"log/slog"

	"courierbridge/internal/core/domain/model/event"
)

// Emitter writes domain events to a structured logger.
type Emitter struct {
	logger *slog.Logger
}

// NewEmitter creates an emitter over the given logger.
// A nil logger falls back to slog's default.
func NewEmitter(logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{
		logger: logger.With("component", "eventlog"),
	}
}

// Emit appends one event record. Never fails: a lost log line is an accepted
// trade for keeping the reconciliation pipeline free of event-sink errors.
func (e *Emitter) Emit(ctx context.Context, evt event.DomainEvent) {
	e.logger.InfoContext(ctx, "domain event",
		"event_id", evt.ID,
		"event_type", string(evt.Type),
		"order_id", evt.OrderID,
		"occurred_at", evt.OccurredAt,
		"payload", evt.Payload,
	)
}
