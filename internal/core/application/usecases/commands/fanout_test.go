package commands_test

import (
	"errors"
	"testing"
	"time"

	"courierbridge/internal/core/application/usecases/commands"
	"courierbridge/internal/core/domain/model/delivery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newFanout(t *testing.T, notifier *MockNotifier, registry *MockKitchenRegistry) commands.NotificationFanout {
	t.Helper()
	fanout, err := commands.NewNotificationFanout(notifier, registry, time.Second)
	require.NoError(t, err)
	return fanout
}

func TestNewNotificationFanout(t *testing.T) {
	t.Run("should reject nil dependencies", func(t *testing.T) {
		_, err := commands.NewNotificationFanout(nil, nil, time.Second)

		require.ErrorIs(t, err, commands.ErrNotificationFanoutIsInvalid)
	})
}

func TestNotificationFanout_Notify(t *testing.T) {
	ctx := t.Context()
	eta := 20

	t.Run("should message every kitchen staff chat with status and eta", func(t *testing.T) {
		notifier := new(MockNotifier)
		registry := new(MockKitchenRegistry)
		registry.On("StaffChatIDs", mock.Anything, int64(7)).Return([]int64{100, 200}, nil).Once()
		notifier.On("Send", mock.Anything, int64(100),
			`Order ORD-1: courier status is now "courier_assigned" (delivery_in_progress), ETA 20 min`,
			"").Return(nil).Once()
		notifier.On("Send", mock.Anything, int64(200),
			`Order ORD-1: courier status is now "courier_assigned" (delivery_in_progress), ETA 20 min`,
			"").Return(nil).Once()

		err := newFanout(t, notifier, registry).Notify(ctx, commands.FanoutInput{
			OrderID:    "ORD-1",
			KitchenID:  7,
			RawStatus:  delivery.VendorCourierAssigned,
			Status:     delivery.StatusInProgress,
			ETAMinutes: &eta,
		})

		require.NoError(t, err)
		notifier.AssertExpectations(t)
		registry.AssertExpectations(t)
	})

	t.Run("should message the client on customer-visible milestones", func(t *testing.T) {
		milestones := []struct {
			raw     delivery.VendorStatus
			message string
		}{
			{delivery.VendorCourierDeparted, "Courier is on the way with your order ORD-1."},
			{delivery.VendorOrderOnHands, "Your order ORD-1 has been picked up by the courier."},
		}

		for _, milestone := range milestones {
			t.Run(string(milestone.raw), func(t *testing.T) {
				notifier := new(MockNotifier)
				registry := new(MockKitchenRegistry)
				registry.On("StaffChatIDs", mock.Anything, int64(7)).Return([]int64{}, nil).Once()
				notifier.On("Send", mock.Anything, int64(1001), milestone.message, "").
					Return(nil).Once()

				err := newFanout(t, notifier, registry).Notify(ctx, commands.FanoutInput{
					OrderID:   "ORD-1",
					KitchenID: 7,
					ClientID:  1001,
					RawStatus: milestone.raw,
					Status:    delivery.StatusInProgress,
				})

				require.NoError(t, err)
				notifier.AssertExpectations(t)
			})
		}
	})

	t.Run("should attach the proof photo to the delivered message", func(t *testing.T) {
		notifier := new(MockNotifier)
		registry := new(MockKitchenRegistry)
		registry.On("StaffChatIDs", mock.Anything, int64(7)).Return([]int64{}, nil).Once()
		notifier.On("Send", mock.Anything, int64(1001),
			"Your order ORD-1 has been delivered. Thank you!", "photo-ref").Return(nil).Once()

		err := newFanout(t, notifier, registry).Notify(ctx, commands.FanoutInput{
			OrderID:       "ORD-1",
			KitchenID:     7,
			ClientID:      1001,
			RawStatus:     delivery.VendorDelivered,
			Status:        delivery.StatusDelivered,
			ProofImageRef: "photo-ref",
		})

		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("should not message the client on non-milestone statuses", func(t *testing.T) {
		notifier := new(MockNotifier)
		registry := new(MockKitchenRegistry)
		registry.On("StaffChatIDs", mock.Anything, int64(7)).Return([]int64{100}, nil).Once()
		notifier.On("Send", mock.Anything, int64(100), mock.Anything, "").Return(nil).Once()

		err := newFanout(t, notifier, registry).Notify(ctx, commands.FanoutInput{
			OrderID:   "ORD-1",
			KitchenID: 7,
			ClientID:  1001,
			RawStatus: delivery.VendorCreated,
			Status:    delivery.StatusNew,
		})

		require.NoError(t, err)
		notifier.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("should keep recipients independent when one send fails", func(t *testing.T) {
		notifier := new(MockNotifier)
		registry := new(MockKitchenRegistry)
		registry.On("StaffChatIDs", mock.Anything, int64(7)).Return([]int64{100}, nil).Once()
		notifier.On("Send", mock.Anything, int64(100), mock.Anything, "").
			Return(errors.New("chat blocked")).Once()
		notifier.On("Send", mock.Anything, int64(1001), mock.Anything, "").Return(nil).Once()

		err := newFanout(t, notifier, registry).Notify(ctx, commands.FanoutInput{
			OrderID:   "ORD-1",
			KitchenID: 7,
			ClientID:  1001,
			RawStatus: delivery.VendorOrderOnHands,
			Status:    delivery.StatusInProgress,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat blocked")
		notifier.AssertNumberOfCalls(t, "Send", 2)
	})

	t.Run("should still message the client when the registry fails", func(t *testing.T) {
		notifier := new(MockNotifier)
		registry := new(MockKitchenRegistry)
		registry.On("StaffChatIDs", mock.Anything, int64(7)).
			Return(nil, errors.New("registry down")).Once()
		notifier.On("Send", mock.Anything, int64(1001), mock.Anything, "").Return(nil).Once()

		err := newFanout(t, notifier, registry).Notify(ctx, commands.FanoutInput{
			OrderID:   "ORD-1",
			KitchenID: 7,
			ClientID:  1001,
			RawStatus: delivery.VendorCourierDeparted,
			Status:    delivery.StatusInProgress,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "registry down")
		notifier.AssertNumberOfCalls(t, "Send", 1)
	})
}
