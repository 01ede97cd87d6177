package commands

import (
	"courierbridge/internal/core/domain/model/delivery"
)

// OutcomeKind classifies the result of reconciling one status callback.
type OutcomeKind int

const (
	// OutcomeNone is the zero value of an outcome that was never produced.
	OutcomeNone OutcomeKind = iota

	// OutcomeIgnored means a guard stopped the update before any mutation.
	OutcomeIgnored

	// OutcomeUnknownStatus means the vendor token is outside the known vocabulary.
	OutcomeUnknownStatus

	// OutcomeIdempotent means the update repeated the current canonical status.
	OutcomeIdempotent

	// OutcomeFinal means the order is terminal and the update was dropped.
	OutcomeFinal

	// OutcomeRejected means the transition table refused the update.
	OutcomeRejected

	// OutcomeApplied means the canonical status advanced.
	OutcomeApplied
)

// IgnoreReason names the guard that stopped an update.
type IgnoreReason string

const (
	IgnoreReasonCourierNotRequested IgnoreReason = "courier_not_requested"
	IgnoreReasonNotKitchenOrder     IgnoreReason = "not_kitchen_order"
	IgnoreReasonNotManagedByCourier IgnoreReason = "not_managed_by_courier"
)

// Outcome is the controller's answer for one status callback. Every located
// order yields an Outcome; nothing but a missing order is an error.
type Outcome struct {
	Kind   OutcomeKind
	Reason IgnoreReason
	From   delivery.Status
	To     delivery.Status
}

// IgnoredOutcome builds the outcome of a guard rejection.
func IgnoredOutcome(reason IgnoreReason) Outcome {
	return Outcome{Kind: OutcomeIgnored, Reason: reason}
}

// UnknownStatusOutcome builds the outcome of an unmapped vendor token.
func UnknownStatusOutcome() Outcome {
	return Outcome{Kind: OutcomeUnknownStatus}
}

// IdempotentOutcome builds the outcome of a suppressed repeat update.
func IdempotentOutcome(status delivery.Status) Outcome {
	return Outcome{Kind: OutcomeIdempotent, From: status, To: status}
}

// FinalOutcome builds the outcome of an update dropped at a terminal state.
func FinalOutcome(current, attempted delivery.Status) Outcome {
	return Outcome{Kind: OutcomeFinal, From: current, To: attempted}
}

// RejectedOutcome builds the outcome of a transition-table rejection.
func RejectedOutcome(current, attempted delivery.Status) Outcome {
	return Outcome{Kind: OutcomeRejected, From: current, To: attempted}
}

// AppliedOutcome builds the outcome of an applied status change.
func AppliedOutcome(from, to delivery.Status) Outcome {
	return Outcome{Kind: OutcomeApplied, From: from, To: to}
}
