package delivery

import (
	"fmt"

	"courierbridge/internal/pkg/errs"
)

// Status represents the canonical delivery state of an order.
// It implements a state machine with defined transitions to ensure delivery
// updates reported by the courier follow the correct lifecycle.
//
// State transitions (self-loops are idempotent no-ops):
//
//	New ──┬──> InProgress ──> Delivered (final)
//	      │         │
//	      │         └──-----> Cancelled (final)
//	      ├──---------------> Delivered (courier closed immediately)
//	      └──---------------> Cancelled
//
// StatusNone is not a state of this machine: it is the pre-courier placeholder
// of an order the courier has never reported on. The reconciliation controller
// treats it specially; the transition predicate never accepts it.
type Status int

const (
	// StatusNone represents the pre-courier placeholder.
	// This value (0) marks an order never touched by a courier status report;
	// it is not comparable to the FSM states below.
	StatusNone Status = iota

	// StatusNew is the initial canonical state once a courier acknowledges the order.
	StatusNew

	// StatusInProgress indicates the courier is actively handling the delivery.
	StatusInProgress

	// StatusDelivered indicates the order reached the customer. Final.
	StatusDelivered

	// StatusCancelled indicates the delivery was called off. Final.
	StatusCancelled
)

// getStatusStrings returns the wire representation of each status.
// The strings are the durable-store vocabulary and must stay stable.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusNew:        "delivery_new",
		StatusInProgress: "delivery_in_progress",
		StatusDelivered:  "delivered",
		StatusCancelled:  "cancelled",
	}
}

// getTransitions returns the allowed-transition table.
// A status maps to the set of statuses it may move to, itself included.
func getTransitions() map[Status]map[Status]bool {
	return map[Status]map[Status]bool{
		StatusNew: {
			StatusNew:        true,
			StatusInProgress: true,
			StatusDelivered:  true,
			StatusCancelled:  true,
		},
		StatusInProgress: {
			StatusInProgress: true,
			StatusDelivered:  true,
			StatusCancelled:  true,
		},
		StatusDelivered: {
			StatusDelivered: true,
		},
		StatusCancelled: {
			StatusCancelled: true,
		},
	}
}

// ParseStatus maps a wire string back to a canonical Status.
// The empty string maps to StatusNone; unknown strings are rejected.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return StatusNone, nil
	}
	for status, str := range getStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusNone, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a canonical delivery status", s),
	)
}

// Validate checks if the Status value is a real FSM state.
//
// Valid statuses are: StatusNew, StatusInProgress, StatusDelivered,
// StatusCancelled. StatusNone (the placeholder) and any other values are
// invalid.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%d is not a valid delivery status", s),
		)
	}
	return nil
}

// String returns the wire name of the status.
//
// Returns the stable durable-store string for valid statuses and the empty
// string for StatusNone and any out-of-range value. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return ""
}

// IsFinal reports whether the status is terminal.
// Terminal states accept no further transition except their own self-loop.
func (s Status) IsFinal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsValidTransition reports whether current may move to incoming according to
// the transition table. Self-loops are allowed (idempotent no-op).
//
// A current of StatusNone is always rejected here: the placeholder is not a
// comparable FSM value, and the first courier-originated update is authorized
// by the controller, not by this predicate.
func IsValidTransition(current, incoming Status) bool {
	allowed, ok := getTransitions()[current]
	if !ok {
		return false
	}
	return allowed[incoming]
}
