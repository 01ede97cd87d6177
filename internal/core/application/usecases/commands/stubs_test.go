package commands_test

import (
	"context"
	"sync"
	"testing"

	"courierbridge/internal/core/domain/model/event"
	"courierbridge/internal/core/domain/model/kernel"
	"courierbridge/internal/core/domain/model/order"
	"courierbridge/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeWorkingSet is a real in-memory working set for handler tests. Locking
// semantics matter to the pipeline, so a behavioral fake beats a mock here.
type fakeWorkingSet struct {
	mu         sync.Mutex
	orders     map[string]*order.Order
	byExternal map[string]string
	locks      map[string]*sync.Mutex
}

func newFakeWorkingSet() *fakeWorkingSet {
	return &fakeWorkingSet{
		orders:     make(map[string]*order.Order),
		byExternal: make(map[string]string),
		locks:      make(map[string]*sync.Mutex),
	}
}

func (f *fakeWorkingSet) Get(canonicalID string) (*order.Order, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[canonicalID]
	return o, ok
}

func (f *fakeWorkingSet) FindByExternalID(externalID string) (*order.Order, bool) {
	if externalID == "" {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	canonicalID, ok := f.byExternal[externalID]
	if !ok {
		return nil, false
	}
	o, ok := f.orders[canonicalID]
	return o, ok
}

func (f *fakeWorkingSet) Insert(o *order.Order) *order.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	if resident, ok := f.orders[o.ID().String()]; ok {
		return resident
	}
	f.orders[o.ID().String()] = o
	if externalID := o.ExternalDeliveryID(); externalID != "" {
		f.byExternal[externalID] = o.ID().String()
	}
	return o
}

func (f *fakeWorkingSet) AdoptExternalID(canonicalID, externalID string) {
	if externalID == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byExternal[externalID] = canonicalID
}

func (f *fakeWorkingSet) All() []*order.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*order.Order, 0, len(f.orders))
	for _, o := range f.orders {
		all = append(all, o)
	}
	return all
}

func (f *fakeWorkingSet) Lock(canonicalID string) func() {
	f.mu.Lock()
	l, ok := f.locks[canonicalID]
	if !ok {
		l = &sync.Mutex{}
		f.locks[canonicalID] = l
	}
	f.mu.Unlock()

	l.Lock()
	return l.Unlock
}

type MockDurableStore struct{ mock.Mock }

func (m *MockDurableStore) Find(ctx context.Context, identifier string) (*ports.OrderSnapshot, error) {
	args := m.Called(ctx, identifier)
	if snapshot, ok := args.Get(0).(*ports.OrderSnapshot); ok {
		return snapshot, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDurableStore) UpsertDeliveryFields(
	ctx context.Context,
	canonicalID string,
	fields ports.DeliveryFields,
) error {
	args := m.Called(ctx, canonicalID, fields)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Send(ctx context.Context, recipient int64, message, photoRef string) error {
	args := m.Called(ctx, recipient, message, photoRef)
	return args.Error(0)
}

type MockKitchenRegistry struct{ mock.Mock }

func (m *MockKitchenRegistry) StaffChatIDs(ctx context.Context, kitchenID int64) ([]int64, error) {
	args := m.Called(ctx, kitchenID)
	if chats, ok := args.Get(0).([]int64); ok {
		return chats, args.Error(1)
	}
	return nil, args.Error(1)
}

// recordingEmitter captures emitted events in order.
type recordingEmitter struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (r *recordingEmitter) Emit(_ context.Context, e event.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEmitter) Types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]event.Type, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

// lockObservingEmitter verifies the order's lock is still held whenever an
// event for it is emitted.
type lockObservingEmitter struct {
	t          *testing.T
	workingSet *fakeWorkingSet
	emitted    int
}

func (l *lockObservingEmitter) Emit(_ context.Context, e event.DomainEvent) {
	l.emitted++

	l.workingSet.mu.Lock()
	lock := l.workingSet.locks[e.OrderID]
	l.workingSet.mu.Unlock()

	if lock == nil {
		l.t.Errorf("no lock entry for order %s at emit time", e.OrderID)
		return
	}
	if lock.TryLock() {
		lock.Unlock()
		l.t.Errorf("event %s emitted after the order lock was released", e.Type)
	}
}

func mustOrderID(t *testing.T, raw string) kernel.OrderID {
	t.Helper()
	id, err := kernel.NewOrderID(raw)
	require.NoError(t, err)
	return id
}

// newKitchenOrder builds a courier-tracked kitchen order that passes every
// guard of the pipeline.
func newKitchenOrder(t *testing.T, raw string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		mustOrderID(t, raw),
		1001,
		7,
		order.SourceKitchen,
		order.ProviderCourier,
		order.DecisionRequested,
	)
	require.NoError(t, err)
	return o
}
