package commands

import (
	"context"
	"errors"
	"time"

	"courierbridge/internal/core/domain/model/order"
	"courierbridge/internal/core/ports"
)

var ErrRetryDurableSyncCommandHandlerIsInvalid = errors.New(
	"RetryDurableSyncCommandHandler requires a working set and a durable store",
)

// RetryDurableSyncCommandHandler re-attempts the durable upsert for orders
// whose last sync failed, clearing the diagnostic on success. Each order is
// handled independently: one store failure never stops the sweep.
type RetryDurableSyncCommandHandler struct {
	workingSet  ports.WorkingSet
	store       ports.DurableStore
	syncTimeout time.Duration
}

// NewRetryDurableSyncCommandHandler creates a handler for sync retry sweeps.
// syncTimeout bounds each individual upsert.
func NewRetryDurableSyncCommandHandler(
	workingSet ports.WorkingSet,
	store ports.DurableStore,
	syncTimeout time.Duration,
) (RetryDurableSyncCommandHandler, error) {
	if workingSet == nil || store == nil {
		return RetryDurableSyncCommandHandler{}, ErrRetryDurableSyncCommandHandlerIsInvalid
	}
	if syncTimeout <= 0 {
		syncTimeout = 5 * time.Second
	}

	return RetryDurableSyncCommandHandler{
		workingSet:  workingSet,
		store:       store,
		syncTimeout: syncTimeout,
	}, nil
}

// Handle sweeps the working set and retries every stale sync.
// Returns the number of orders whose sync was repaired.
func (h RetryDurableSyncCommandHandler) Handle(
	ctx context.Context,
	cmd RetryDurableSyncCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	retried := 0
	for _, o := range h.workingSet.All() {
		if h.retryOne(ctx, o) {
			retried++
		}
	}
	return retried, nil
}

func (h RetryDurableSyncCommandHandler) retryOne(ctx context.Context, o *order.Order) bool {
	canonicalID := o.ID().String()

	unlock := h.workingSet.Lock(canonicalID)
	if o.SyncError() == "" {
		unlock()
		return false
	}
	fields := snapshotDeliveryFields(o, time.Now().UTC())
	unlock()

	syncCtx, cancel := context.WithTimeout(ctx, h.syncTimeout)
	err := h.store.UpsertDeliveryFields(syncCtx, canonicalID, *fields)
	cancel()

	unlock = h.workingSet.Lock(canonicalID)
	defer unlock()
	if err != nil {
		o.SetSyncError(err.Error())
		return false
	}
	o.ClearSyncError()
	return true
}
