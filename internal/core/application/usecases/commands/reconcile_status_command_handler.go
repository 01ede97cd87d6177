package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courierbridge/internal/core/domain/model/delivery"
	"courierbridge/internal/core/domain/model/event"
	"courierbridge/internal/core/domain/model/order"
	"courierbridge/internal/core/ports"
)

var ErrReconcileStatusCommandHandlerIsInvalid = errors.New(
	"ReconcileStatusCommandHandler requires a working set, a durable store and an event emitter",
)

// ReconcileStatusCommandHandler is the reconciliation controller. It owns the
// full decision pipeline for one courier status callback:
//
//	locate -> guards -> record raw report -> normalize -> idempotency ->
//	finality -> transition check -> apply -> side effects
//
// The decision runs under the order's lock and produces a plan. Events are
// emitted before the lock is released so the per-order event stream follows
// decision order; the remote side effects (notification fan-out, durable
// sync) run after unlock, each bounded by its own timeout, and their failures
// are recorded as per-order diagnostics rather than propagated. The only
// error a caller ever sees is the locator's not-found.
//
// Example:
//
//	outcome, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order: the one non-OK answer
//	}
//	if outcome.Kind == commands.OutcomeApplied {
//	    log.Printf("order moved %s -> %s", outcome.From, outcome.To)
//	}
type ReconcileStatusCommandHandler struct {
	workingSet  ports.WorkingSet
	locator     OrderLocator
	store       ports.DurableStore
	fanout      NotificationFanout
	events      ports.EventEmitter
	syncTimeout time.Duration
}

// NewReconcileStatusCommandHandler creates the reconciliation controller.
// syncTimeout bounds the durable-store upsert performed as a side effect.
func NewReconcileStatusCommandHandler(
	workingSet ports.WorkingSet,
	locator OrderLocator,
	store ports.DurableStore,
	fanout NotificationFanout,
	events ports.EventEmitter,
	syncTimeout time.Duration,
) (ReconcileStatusCommandHandler, error) {
	if workingSet == nil || store == nil || events == nil {
		return ReconcileStatusCommandHandler{}, ErrReconcileStatusCommandHandlerIsInvalid
	}
	if syncTimeout <= 0 {
		syncTimeout = 5 * time.Second
	}

	return ReconcileStatusCommandHandler{
		workingSet:  workingSet,
		locator:     locator,
		store:       store,
		fanout:      fanout,
		events:      events,
		syncTimeout: syncTimeout,
	}, nil
}

// reconcilePlan is everything decide produced under the order's lock: the
// outcome for the caller, the events to append, and the side-effect inputs
// captured as snapshots so no order state is read after unlock.
type reconcilePlan struct {
	outcome Outcome
	events  []event.DomainEvent
	fanout  *FanoutInput
	sync    *ports.DeliveryFields
}

// Handle reconciles one courier status callback.
// Returns the outcome of the decision and an error only when the order could
// not be located. Side-effect failures never surface here.
func (h ReconcileStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcileStatusCommand,
) (Outcome, error) {
	if err := cmd.Validate(); err != nil {
		return Outcome{}, err
	}

	o, err := h.locator.Locate(ctx, cmd.Identifier())
	if err != nil {
		return Outcome{}, err
	}
	canonicalID := o.ID().String()

	unlock := h.workingSet.Lock(canonicalID)
	plan := h.decide(o, cmd, time.Now().UTC())
	// Emitting under the lock keeps the order's event stream in decision
	// order; the sink is an in-process log call.
	for _, e := range plan.events {
		h.events.Emit(ctx, e)
	}
	unlock()

	var fanoutErr error
	if plan.fanout != nil {
		fanoutErr = h.fanout.Notify(ctx, *plan.fanout)
	}

	var syncErr error
	if plan.sync != nil {
		syncErr = h.syncDurable(ctx, canonicalID, *plan.sync)
	}

	if plan.fanout != nil || plan.sync != nil {
		h.recordDiagnostics(o, plan, fanoutErr, syncErr)
	}

	return plan.outcome, nil
}

// decide runs the guard and FSM pipeline for one callback. Must be called
// with the order's lock held.
func (h ReconcileStatusCommandHandler) decide(
	o *order.Order,
	cmd ReconcileStatusCommand,
	now time.Time,
) reconcilePlan {
	if o.CourierDecision() != order.DecisionRequested {
		return reconcilePlan{outcome: IgnoredOutcome(IgnoreReasonCourierNotRequested)}
	}
	if o.Source() != order.SourceKitchen {
		return reconcilePlan{outcome: IgnoredOutcome(IgnoreReasonNotKitchenOrder)}
	}
	if o.DeliveryProvider() != order.ProviderCourier && !o.CourierDispatchFailed() {
		return reconcilePlan{outcome: IgnoredOutcome(IgnoreReasonNotManagedByCourier)}
	}

	canonicalID := o.ID().String()
	raw := cmd.RawStatus()
	firstUpdate := !o.CourierTouched()

	// The raw report is part of the audit trail and lands on the order no
	// matter what the pipeline decides below.
	o.RecordVendorReport(raw, now)
	if cmd.Identifier() != canonicalID && o.ExternalDeliveryID() == "" {
		if err := o.SetExternalDeliveryID(cmd.Identifier()); err == nil {
			h.workingSet.AdoptExternalID(canonicalID, cmd.Identifier())
		}
	}
	if eta := cmd.ETAMinutes(); eta != nil {
		o.SetETA(*eta)
	}
	o.MergeProof(cmd.ProofImageRef(), cmd.ProofMessageRef())

	target, known := delivery.Normalize(raw)
	if !known {
		o.SetLastError(fmt.Sprintf("Unknown courier status: %s", raw))
		return reconcilePlan{
			outcome: UnknownStatusOutcome(),
			events: []event.DomainEvent{
				event.New(event.TypeStatusUnknown, canonicalID, map[string]any{
					"raw_status": raw.String(),
				}),
			},
		}
	}

	// The very first courier report is exempt: the placeholder status an
	// untouched order carries is not comparable to any FSM state.
	// A suppressed repeat causes no side effects, the durable sync included.
	if !firstUpdate && target == o.Status() {
		return reconcilePlan{outcome: IdempotentOutcome(target)}
	}

	if o.Status().IsFinal() {
		return reconcilePlan{
			outcome: FinalOutcome(o.Status(), target),
			events: []event.DomainEvent{
				event.New(event.TypeStatusIgnoredFinal, canonicalID, map[string]any{
					"current":    o.Status().String(),
					"attempted":  target.String(),
					"raw_status": raw.String(),
				}),
			},
			sync: snapshotAttemptedDeliveryFields(o, target, now),
		}
	}

	if !firstUpdate && !delivery.IsValidTransition(o.Status(), target) {
		o.SetLastError(fmt.Sprintf("Invalid transition %s -> %s", o.Status(), target))
		return reconcilePlan{
			outcome: RejectedOutcome(o.Status(), target),
			events: []event.DomainEvent{
				event.New(event.TypeStatusRejected, canonicalID, map[string]any{
					"from":       o.Status().String(),
					"to":         target.String(),
					"raw_status": raw.String(),
				}),
			},
			sync: snapshotAttemptedDeliveryFields(o, target, now),
		}
	}

	from := o.Status()
	if err := o.ApplyStatus(target); err != nil {
		o.SetLastError(err.Error())
		return reconcilePlan{
			outcome: RejectedOutcome(from, target),
			sync:    snapshotAttemptedDeliveryFields(o, target, now),
		}
	}
	o.SetLastError("")

	appliedEvents := []event.DomainEvent{
		event.New(event.TypeStatusChanged, canonicalID, map[string]any{
			"from":       from.String(),
			"to":         target.String(),
			"raw_status": raw.String(),
		}),
	}
	if target == delivery.StatusDelivered && o.ConfirmDelivery(now) {
		appliedEvents = append(appliedEvents,
			event.New(event.TypeCompleted, canonicalID, map[string]any{
				"confirmed_at": now.Format(time.RFC3339),
			}),
		)
	}

	return reconcilePlan{
		outcome: AppliedOutcome(from, target),
		events:  appliedEvents,
		fanout: &FanoutInput{
			OrderID:       canonicalID,
			KitchenID:     o.KitchenID(),
			ClientID:      o.ClientID(),
			RawStatus:     raw,
			Status:        target,
			ETAMinutes:    o.ETAMinutes(),
			ProofImageRef: o.ProofImageRef(),
		},
		sync: snapshotDeliveryFields(o, now),
	}
}

func (h ReconcileStatusCommandHandler) syncDurable(
	ctx context.Context,
	canonicalID string,
	fields ports.DeliveryFields,
) error {
	syncCtx, cancel := context.WithTimeout(ctx, h.syncTimeout)
	defer cancel()

	return h.store.UpsertDeliveryFields(syncCtx, canonicalID, fields)
}

// recordDiagnostics writes the side-effect results back onto the order under
// a fresh lock acquisition. Fan-out and sync diagnostics are independent.
func (h ReconcileStatusCommandHandler) recordDiagnostics(
	o *order.Order,
	plan reconcilePlan,
	fanoutErr error,
	syncErr error,
) {
	unlock := h.workingSet.Lock(o.ID().String())
	defer unlock()

	if plan.fanout != nil {
		if fanoutErr != nil {
			o.SetFanoutError(fanoutErr.Error())
		} else {
			o.SetFanoutError("")
		}
	}
	if plan.sync != nil {
		if syncErr != nil {
			o.SetSyncError(syncErr.Error())
		} else {
			o.ClearSyncError()
		}
	}
}

// snapshotDeliveryFields captures the order's delivery columns for the
// durable sync. Must be called with the order's lock held.
func snapshotDeliveryFields(o *order.Order, now time.Time) *ports.DeliveryFields {
	fields := &ports.DeliveryFields{
		Status:           o.Status().String(),
		RawStatus:        o.RawVendorStatus().String(),
		EtaMinutes:       o.ETAMinutes(),
		ConfirmedAt:      o.DeliveryConfirmedAt(),
		CourierUpdatedAt: o.CourierUpdatedAt(),
		SyncedAt:         now,
	}
	if externalID := o.ExternalDeliveryID(); externalID != "" {
		fields.ExternalID = &externalID
	}
	if lastError := o.LastError(); lastError != "" {
		fields.LastError = &lastError
	}
	return fields
}

// snapshotAttemptedDeliveryFields is the variant for updates the FSM turned
// away: the durable record carries the status the courier attempted so late
// or out-of-order reports stay visible in the audit columns.
func snapshotAttemptedDeliveryFields(
	o *order.Order,
	attempted delivery.Status,
	now time.Time,
) *ports.DeliveryFields {
	fields := snapshotDeliveryFields(o, now)
	fields.Status = attempted.String()
	return fields
}
