package commands

import (
	"context"
	"errors"
	"time"

	"courierbridge/internal/core/domain/model/kernel"
	"courierbridge/internal/core/domain/model/order"
	"courierbridge/internal/core/ports"
	"courierbridge/internal/pkg/errs"
)

var ErrOrderLocatorIsInvalid = errors.New(
	"OrderLocator requires a working set and a durable store",
)

// OrderLocator resolves a callback identifier to a live order, trying lookup
// strategies in order of cost:
//
//  1. canonical id lookup in the working set
//  2. courier-assigned (external) id scan of the working set
//  3. durable-store lookup followed by reconstruction into the working set
//
// Durable-store failures are treated as lookup misses: the store being down
// must not turn a possibly-known order into a hard error for the wrong reason,
// and the not-found answer stays uniform either way.
type OrderLocator struct {
	workingSet  ports.WorkingSet
	store       ports.DurableStore
	findTimeout time.Duration
}

// NewOrderLocator creates a locator over the given working set and durable
// store. findTimeout bounds the durable-store lookup of strategy 3.
func NewOrderLocator(
	workingSet ports.WorkingSet,
	store ports.DurableStore,
	findTimeout time.Duration,
) (OrderLocator, error) {
	if workingSet == nil || store == nil {
		return OrderLocator{}, ErrOrderLocatorIsInvalid
	}
	if findTimeout <= 0 {
		findTimeout = 3 * time.Second
	}

	return OrderLocator{
		workingSet:  workingSet,
		store:       store,
		findTimeout: findTimeout,
	}, nil
}

// Locate resolves the identifier to the resident order, reconstructing it
// from the durable store when necessary. Returns an ObjectNotFoundError when
// every strategy misses.
func (l OrderLocator) Locate(ctx context.Context, identifier string) (*order.Order, error) {
	if o, ok := l.workingSet.Get(identifier); ok {
		return o, nil
	}

	if o, ok := l.workingSet.FindByExternalID(identifier); ok {
		return o, nil
	}

	if o := l.reconstruct(ctx, identifier); o != nil {
		return o, nil
	}

	return nil, errs.NewObjectNotFoundError("order", identifier)
}

func (l OrderLocator) reconstruct(ctx context.Context, identifier string) *order.Order {
	findCtx, cancel := context.WithTimeout(ctx, l.findTimeout)
	defer cancel()

	snapshot, err := l.store.Find(findCtx, identifier)
	if err != nil || snapshot == nil {
		return nil
	}

	restored, err := restoreFromSnapshot(snapshot)
	if err != nil {
		return nil
	}

	// Insert-if-absent: a competing reconstruction of the same order may have
	// won the race, in which case the resident instance is the real one.
	return l.workingSet.Insert(restored)
}

func restoreFromSnapshot(snapshot *ports.OrderSnapshot) (*order.Order, error) {
	id, err := kernel.NewOrderID(snapshot.CanonicalID)
	if err != nil {
		return nil, err
	}

	// Old durable records may predate the delivery columns; fall back to the
	// defaults a courier-tracked kitchen order would carry.
	source := order.Source(snapshot.Source)
	if source == "" {
		source = order.SourceKitchen
	}
	provider := order.Provider(snapshot.DeliveryProvider)
	if provider == "" {
		provider = order.ProviderCourier
	}
	decision := order.Decision(snapshot.CourierDecision)
	if decision == "" {
		decision = order.DecisionRequested
	}

	return order.RestoreOrder(
		id,
		snapshot.ExternalDeliveryID,
		snapshot.ClientID,
		snapshot.KitchenID,
		source,
		provider,
		decision,
	)
}
