package ports

import (
	"courierbridge/internal/core/domain/model/order"
)

// WorkingSet is the live, in-process set of orders the reconciliation core is
// currently tracking, keyed by canonical order id. It also owns the per-order
// locks that serialize reconciliation for a single order.
type WorkingSet interface {
	// Get returns the order with the given canonical id, if resident.
	Get(canonicalID string) (*order.Order, bool)

	// FindByExternalID resolves a courier-assigned identifier to the resident
	// order. Only identifiers announced via Insert or AdoptExternalID resolve;
	// the set never reads order state to answer, so the lookup does not need
	// the order's lock.
	FindByExternalID(externalID string) (*order.Order, bool)

	// Insert adds the order keyed by its canonical id unless one is already
	// resident, and returns the resident instance either way. This makes
	// competing reconstructions of the same order collapse to one. An external
	// id the order already carries is indexed for FindByExternalID.
	Insert(o *order.Order) *order.Order

	// AdoptExternalID records that the given order now answers to the
	// courier-assigned identifier. Called when a callback assigns the external
	// id to a resident order.
	AdoptExternalID(canonicalID, externalID string)

	// All returns a snapshot of the resident orders, in no particular order.
	All() []*order.Order

	// Lock acquires the per-order lock for the given canonical id and returns
	// the corresponding unlock function. Locks for distinct ids are independent.
	Lock(canonicalID string) (unlock func())
}
