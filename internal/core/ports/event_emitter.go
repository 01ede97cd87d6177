package ports

import (
	"context"

	"courierbridge/internal/core/domain/model/event"
)

// EventEmitter is the append-only sink for domain events.
// At-least-once delivery is acceptable; events for one order are emitted in
// the causal order the controller produced them.
type EventEmitter interface {
	Emit(ctx context.Context, e event.DomainEvent)
}
