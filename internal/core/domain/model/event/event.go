// Package event defines the immutable domain events appended by the
// reconciliation core. Events are the core's sole observability surface:
// every meaningful decision about an order produces exactly one event, in the
// causal order the controller made it. Events are never mutated or deleted.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Type enumerates the event vocabulary of the reconciliation core.
type Type string

const (
	// TypeStatusUnknown records a courier token outside the known vocabulary.
	TypeStatusUnknown Type = "delivery_status_unknown"

	// TypeStatusIgnoredFinal records an update dropped because the order is terminal.
	TypeStatusIgnoredFinal Type = "delivery_status_ignored_final"

	// TypeStatusRejected records an update refused by the transition table.
	TypeStatusRejected Type = "delivery_status_rejected"

	// TypeStatusChanged records an applied canonical status change.
	TypeStatusChanged Type = "delivery_status_changed"

	// TypeCompleted records the first arrival at the delivered state.
	TypeCompleted Type = "delivery_completed"
)

// DomainEvent describes something that happened to an order.
// Append-only: consumers may see an event more than once, never a changed one.
type DomainEvent struct {
	ID         string
	Type       Type
	OrderID    string
	OccurredAt time.Time
	Payload    map[string]any
}

// New creates a DomainEvent stamped with a fresh identifier and the current time.
func New(t Type, orderID string, payload map[string]any) DomainEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	return DomainEvent{
		ID:         uuid.NewString(),
		Type:       t,
		OrderID:    orderID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
