package commands_test

import (
	"errors"
	"testing"
	"time"

	"courierbridge/internal/core/application/usecases/commands"
	"courierbridge/internal/core/domain/model/delivery"
	"courierbridge/internal/core/domain/model/order"
	"courierbridge/internal/core/ports"
	"courierbridge/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLocator(t *testing.T, workingSet *fakeWorkingSet, store *MockDurableStore) commands.OrderLocator {
	t.Helper()
	locator, err := commands.NewOrderLocator(workingSet, store, time.Second)
	require.NoError(t, err)
	return locator
}

func TestNewOrderLocator(t *testing.T) {
	t.Run("should reject nil dependencies", func(t *testing.T) {
		_, err := commands.NewOrderLocator(nil, nil, time.Second)

		require.ErrorIs(t, err, commands.ErrOrderLocatorIsInvalid)
	})
}

func TestOrderLocator_Locate(t *testing.T) {
	ctx := t.Context()

	t.Run("should find resident order by canonical id", func(t *testing.T) {
		workingSet := newFakeWorkingSet()
		store := new(MockDurableStore)
		resident := workingSet.Insert(newKitchenOrder(t, "ORD-1"))

		located, err := newLocator(t, workingSet, store).Locate(ctx, "ORD-1")

		require.NoError(t, err)
		assert.Same(t, resident, located)
		store.AssertNotCalled(t, "Find")
	})

	t.Run("should find resident order by external id", func(t *testing.T) {
		workingSet := newFakeWorkingSet()
		store := new(MockDurableStore)
		resident := newKitchenOrder(t, "ORD-2")
		require.NoError(t, resident.SetExternalDeliveryID("EXT-99"))
		workingSet.Insert(resident)

		located, err := newLocator(t, workingSet, store).Locate(ctx, "EXT-99")

		require.NoError(t, err)
		assert.Same(t, resident, located)
		store.AssertNotCalled(t, "Find")
	})

	t.Run("should reconstruct missing order from durable store", func(t *testing.T) {
		workingSet := newFakeWorkingSet()
		store := new(MockDurableStore)
		store.On("Find", mock.Anything, "EXT-7").Return(&ports.OrderSnapshot{
			CanonicalID:        "ORD-3",
			ExternalDeliveryID: "EXT-7",
			ClientID:           42,
			KitchenID:          5,
			Source:             "kitchen",
			DeliveryProvider:   "courier",
			CourierDecision:    "requested",
		}, nil).Once()

		located, err := newLocator(t, workingSet, store).Locate(ctx, "EXT-7")

		require.NoError(t, err)
		assert.Equal(t, "ORD-3", located.ID().String())
		assert.Equal(t, "EXT-7", located.ExternalDeliveryID())
		assert.Equal(t, int64(42), located.ClientID())
		assert.Equal(t, delivery.StatusNone, located.Status(),
			"reconstruction must yield the pre-courier placeholder")

		resident, ok := workingSet.Get("ORD-3")
		require.True(t, ok, "reconstructed order must join the working set")
		assert.Same(t, located, resident)
		store.AssertExpectations(t)
	})

	t.Run("should default snapshot gaps to a courier-tracked kitchen order", func(t *testing.T) {
		workingSet := newFakeWorkingSet()
		store := new(MockDurableStore)
		store.On("Find", mock.Anything, "ORD-4").Return(&ports.OrderSnapshot{
			CanonicalID: "ORD-4",
		}, nil).Once()

		located, err := newLocator(t, workingSet, store).Locate(ctx, "ORD-4")

		require.NoError(t, err)
		assert.Equal(t, order.SourceKitchen, located.Source())
		assert.Equal(t, order.ProviderCourier, located.DeliveryProvider())
		assert.Equal(t, order.DecisionRequested, located.CourierDecision())
	})

	t.Run("should keep resident order when reconstructions race", func(t *testing.T) {
		workingSet := newFakeWorkingSet()
		store := new(MockDurableStore)
		resident := workingSet.Insert(newKitchenOrder(t, "ORD-5"))
		store.On("Find", mock.Anything, "EXT-5").Return(&ports.OrderSnapshot{
			CanonicalID:        "ORD-5",
			ExternalDeliveryID: "EXT-5",
		}, nil).Once()

		located, err := newLocator(t, workingSet, store).Locate(ctx, "EXT-5")

		require.NoError(t, err)
		assert.Same(t, resident, located)
	})

	t.Run("should treat durable store failure as a miss", func(t *testing.T) {
		workingSet := newFakeWorkingSet()
		store := new(MockDurableStore)
		store.On("Find", mock.Anything, "ORD-6").
			Return(nil, errors.New("connection refused")).Once()

		_, err := newLocator(t, workingSet, store).Locate(ctx, "ORD-6")

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should return not found when every strategy misses", func(t *testing.T) {
		workingSet := newFakeWorkingSet()
		store := new(MockDurableStore)
		store.On("Find", mock.Anything, "ORD-7").
			Return(nil, errs.NewObjectNotFoundError("order", "ORD-7")).Once()

		_, err := newLocator(t, workingSet, store).Locate(ctx, "ORD-7")

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
