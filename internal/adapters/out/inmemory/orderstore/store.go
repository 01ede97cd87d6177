// Package orderstore implements the live working set of orders in process
// memory, together with the per-order locks that serialize reconciliation.
package orderstore

import (
	"sync"

	"courierbridge/internal/core/domain/model/order"
)

// Store is the in-memory working set. The registry mutex only guards the
// maps; per-order serialization is the caller's job via Lock. External ids
// live in their own index under the registry mutex, so lookups never read
// order fields another goroutine may be writing under the order's lock.
type Store struct {
	mu         sync.RWMutex
	orders     map[string]*order.Order
	byExternal map[string]string
	locks      map[string]*sync.Mutex
}

// NewStore creates an empty working set.
func NewStore() *Store {
	return &Store{
		orders:     make(map[string]*order.Order),
		byExternal: make(map[string]string),
		locks:      make(map[string]*sync.Mutex),
	}
}

// Get returns the order with the given canonical id, if resident.
func (s *Store) Get(canonicalID string) (*order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[canonicalID]
	return o, ok
}

// FindByExternalID resolves a courier-assigned identifier through the index.
func (s *Store) FindByExternalID(externalID string) (*order.Order, bool) {
	if externalID == "" {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	canonicalID, ok := s.byExternal[externalID]
	if !ok {
		return nil, false
	}
	o, ok := s.orders[canonicalID]
	return o, ok
}

// Insert adds the order keyed by its canonical id unless one is already
// resident, and returns the resident instance either way. The caller still
// owns the order exclusively here, so reading its external id is safe.
func (s *Store) Insert(o *order.Order) *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	canonicalID := o.ID().String()
	if resident, ok := s.orders[canonicalID]; ok {
		return resident
	}
	s.orders[canonicalID] = o
	if externalID := o.ExternalDeliveryID(); externalID != "" {
		s.byExternal[externalID] = canonicalID
	}
	return o
}

// AdoptExternalID indexes a courier-assigned identifier for a resident order.
func (s *Store) AdoptExternalID(canonicalID, externalID string) {
	if externalID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byExternal[externalID] = canonicalID
}

// Remove drops the order with the given canonical id from the set.
// Its lock entry stays: a goroutine may still hold it.
func (s *Store) Remove(canonicalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, canonicalID)
	for externalID, owner := range s.byExternal {
		if owner == canonicalID {
			delete(s.byExternal, externalID)
		}
	}
}

// All returns a snapshot of the resident orders, in no particular order.
func (s *Store) All() []*order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		all = append(all, o)
	}
	return all
}

// Lock acquires the per-order lock for the given canonical id and returns the
// corresponding unlock function. Locks for distinct ids are independent.
func (s *Store) Lock(canonicalID string) func() {
	s.mu.Lock()
	l, ok := s.locks[canonicalID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[canonicalID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
