package order

import (
	"errors"
	"fmt"
	"time"

	"courierbridge/internal/core/domain/model/delivery"
	"courierbridge/internal/core/domain/model/kernel"
	"courierbridge/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrExternalDeliveryIDReassigned is returned when an attempt is made to
	// change an already assigned courier delivery identifier.
	ErrExternalDeliveryIDReassigned = errors.New("external delivery id is write-once")
)

// Source identifies the channel an order originated from. Only kitchen orders
// participate in delivery status reconciliation.
type Source string

const (
	SourceKitchen Source = "kitchen"
	SourceWebApp  Source = "webapp"
)

// Provider identifies which delivery channel is authorized to drive an
// order's delivery status.
type Provider string

const (
	ProviderCourier Provider = "courier"
	ProviderSelf    Provider = "self"
)

// Decision records whether courier delivery was requested for the order.
// It is fixed at order-creation time and read-only to this component.
type Decision string

const (
	DecisionRequested    Decision = "requested"
	DecisionNotRequested Decision = "not_requested"
)

// Order is the aggregate tracked by the reconciliation core. It carries the
// canonical identity of the order, the courier-assigned external identifier,
// the canonical delivery status and the diagnostics written by the
// reconciliation side effects.
//
// Order follows these invariants:
//   - The canonical identifier is never reassigned
//   - The external delivery identifier is write-once
//   - The canonical status only advances along the delivery FSM
//   - The delivery confirmation timestamp is set at most once
//
// The struct uses private fields to ensure encapsulation; mutation goes
// through validated methods. Callers are responsible for serializing
// concurrent access per order (see the working set's per-order locks).
type Order struct {
	// id is the canonical, system-of-record identifier
	id kernel.OrderID

	// externalDeliveryID is the courier-assigned identifier, set once at dispatch
	externalDeliveryID string

	// clientID is the customer's chat identifier for notifications (0 if unknown)
	clientID int64

	// kitchenID identifies the tenant kitchen the order belongs to
	kitchenID int64

	// source is the originating channel of the order
	source Source

	// deliveryProvider is the channel authorized to drive delivery status
	deliveryProvider Provider

	// courierDecision records whether courier delivery was requested at creation
	courierDecision Decision

	// courierDispatchFailed marks that handing the order to the courier failed
	// at creation time; status callbacks are accepted anyway as a recovery path
	courierDispatchFailed bool

	// status is the canonical delivery state; StatusNone until the courier
	// first reports on the order
	status delivery.Status

	// rawVendorStatus and courierUpdatedAt mirror the last courier report,
	// written unconditionally even for rejected updates
	rawVendorStatus  delivery.VendorStatus
	courierUpdatedAt *time.Time

	// etaMinutes is the courier's latest delivery estimate
	etaMinutes *int

	// proofImageRef and proofMessageRef reference the delivery proof supplied
	// by the courier
	proofImageRef   string
	proofMessageRef string

	// deliveryConfirmedAt is set exactly once, on first arrival at Delivered
	deliveryConfirmedAt *time.Time

	// independent side-effect diagnostics
	lastError   string
	fanoutError string
	syncError   string

	// isConstructed ensures the order was created via a factory method
	isConstructed bool
}

// NewOrder creates an Order as handed to the reconciliation core by the
// order-creation flow. The courier decision, delivery provider and source
// are fixed here and read-only afterwards.
//
// The order starts with the pre-courier placeholder status: the courier has
// not reported on it yet, so it carries no FSM state.
func NewOrder(
	id kernel.OrderID,
	clientID int64,
	kitchenID int64,
	source Source,
	provider Provider,
	decision Decision,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if source == "" {
		return nil, errs.NewValueIsRequiredError("source")
	}
	if provider == "" {
		return nil, errs.NewValueIsRequiredError("delivery provider")
	}
	if decision == "" {
		return nil, errs.NewValueIsRequiredError("courier decision")
	}

	return &Order{
		id:               id,
		clientID:         clientID,
		kitchenID:        kitchenID,
		source:           source,
		deliveryProvider: provider,
		courierDecision:  decision,
		status:           delivery.StatusNone,
		isConstructed:    true,
	}, nil
}

// RestoreOrder reconstructs a minimal Order from a durable-store snapshot.
// Used by the locator when a status callback references an order absent from
// the live working set. The restored order carries the pre-courier
// placeholder status regardless of what the durable store recorded: the next
// callback is treated as the first courier-originated update.
func RestoreOrder(
	id kernel.OrderID,
	externalDeliveryID string,
	clientID int64,
	kitchenID int64,
	source Source,
	provider Provider,
	decision Decision,
) (*Order, error) {
	o, err := NewOrder(id, clientID, kitchenID, source, provider, decision)
	if err != nil {
		return nil, err
	}
	o.externalDeliveryID = externalDeliveryID
	return o, nil
}

// Validate ensures the Order instance was properly constructed through a
// factory method. This prevents bypassing validation by directly
// instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their canonical identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the canonical order identifier.
func (o *Order) ID() kernel.OrderID {
	return o.id
}

// ExternalDeliveryID returns the courier-assigned identifier, or the empty
// string if the courier never assigned one.
func (o *Order) ExternalDeliveryID() string {
	return o.externalDeliveryID
}

// ClientID returns the customer's chat identifier (0 if unknown).
func (o *Order) ClientID() int64 {
	return o.clientID
}

// KitchenID returns the tenant kitchen identifier.
func (o *Order) KitchenID() int64 {
	return o.kitchenID
}

// Source returns the originating channel of the order.
func (o *Order) Source() Source {
	return o.source
}

// DeliveryProvider returns the channel authorized to drive delivery status.
func (o *Order) DeliveryProvider() Provider {
	return o.deliveryProvider
}

// CourierDecision returns whether courier delivery was requested at creation.
func (o *Order) CourierDecision() Decision {
	return o.courierDecision
}

// CourierDispatchFailed reports whether handing the order to the courier
// failed at creation time.
func (o *Order) CourierDispatchFailed() bool {
	return o.courierDispatchFailed
}

// MarkCourierDispatchFailed records that the courier dispatch failed at
// creation time. Subsequent courier callbacks are accepted as a recovery path
// even though the order's provider never identified the courier as owner.
func (o *Order) MarkCourierDispatchFailed() {
	o.courierDispatchFailed = true
}

// Status returns the canonical delivery status.
// StatusNone means the courier never reported on this order.
func (o *Order) Status() delivery.Status {
	return o.status
}

// RawVendorStatus returns the last vendor status token received, mapped or not.
func (o *Order) RawVendorStatus() delivery.VendorStatus {
	return o.rawVendorStatus
}

// CourierUpdatedAt returns the receipt time of the last courier report.
func (o *Order) CourierUpdatedAt() *time.Time {
	return o.courierUpdatedAt
}

// CourierTouched reports whether the courier has ever reported on this order.
// The very first courier-originated update is exempt from idempotency
// suppression, so the distinction matters to the controller.
func (o *Order) CourierTouched() bool {
	return o.courierUpdatedAt != nil
}

// RecordVendorReport stores the raw vendor status and its receipt time.
// Written unconditionally for every located, guard-passing callback, even
// when the update is later rejected, to preserve the audit trail.
func (o *Order) RecordVendorReport(raw delivery.VendorStatus, at time.Time) {
	o.rawVendorStatus = raw
	o.courierUpdatedAt = &at
}

// SetExternalDeliveryID assigns the courier delivery identifier.
// The identifier is write-once: assigning the same value again is a no-op,
// assigning a different one fails.
func (o *Order) SetExternalDeliveryID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("external delivery id")
	}
	if o.externalDeliveryID != "" {
		if o.externalDeliveryID == id {
			return nil
		}
		return ErrExternalDeliveryIDReassigned
	}
	o.externalDeliveryID = id
	return nil
}

// ETAMinutes returns the courier's latest delivery estimate.
func (o *Order) ETAMinutes() *int {
	return o.etaMinutes
}

// SetETA stores the courier's delivery estimate in minutes.
func (o *Order) SetETA(minutes int) {
	o.etaMinutes = &minutes
}

// ProofImageRef returns the delivery proof image reference.
func (o *Order) ProofImageRef() string {
	return o.proofImageRef
}

// ProofMessageRef returns the delivery proof message reference.
func (o *Order) ProofMessageRef() string {
	return o.proofMessageRef
}

// MergeProof stores the proof references supplied by the courier.
// Empty arguments leave the existing references untouched.
func (o *Order) MergeProof(imageRef, messageRef string) {
	if imageRef != "" {
		o.proofImageRef = imageRef
	}
	if messageRef != "" {
		o.proofMessageRef = messageRef
	}
}

// ApplyStatus advances the canonical status.
//
// The first courier-originated status is always accepted: the pre-courier
// placeholder is not a comparable FSM value. Afterwards the move must be
// allowed by the delivery transition table.
func (o *Order) ApplyStatus(incoming delivery.Status) error {
	if err := incoming.Validate(); err != nil {
		return err
	}
	if o.status != delivery.StatusNone && !delivery.IsValidTransition(o.status, incoming) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("transition %s -> %s is not allowed", o.status, incoming),
		)
	}
	o.status = incoming
	return nil
}

// DeliveryConfirmedAt returns the first time the order reached Delivered.
func (o *Order) DeliveryConfirmedAt() *time.Time {
	return o.deliveryConfirmedAt
}

// ConfirmDelivery records the delivery confirmation time.
// First writer wins: the method reports whether the timestamp was set by this
// call, and later calls never overwrite it.
func (o *Order) ConfirmDelivery(at time.Time) bool {
	if o.deliveryConfirmedAt != nil {
		return false
	}
	o.deliveryConfirmedAt = &at
	return true
}

// LastError returns the last vendor-status or transition diagnostic.
func (o *Order) LastError() string {
	return o.lastError
}

// SetLastError records a vendor-status or transition diagnostic.
func (o *Order) SetLastError(msg string) {
	o.lastError = msg
}

// FanoutError returns the last notification fan-out diagnostic.
func (o *Order) FanoutError() string {
	return o.fanoutError
}

// SetFanoutError records a notification fan-out diagnostic.
func (o *Order) SetFanoutError(msg string) {
	o.fanoutError = msg
}

// SyncError returns the last durable-sync diagnostic.
func (o *Order) SyncError() string {
	return o.syncError
}

// SetSyncError records a durable-sync diagnostic.
func (o *Order) SetSyncError(msg string) {
	o.syncError = msg
}

// ClearSyncError removes the durable-sync diagnostic after a successful retry.
func (o *Order) ClearSyncError() {
	o.syncError = ""
}
