package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courierbridge/internal/core/domain/model/delivery"
	"courierbridge/internal/core/ports"
)

var ErrNotificationFanoutIsInvalid = errors.New(
	"NotificationFanout requires a notifier and a kitchen registry",
)

// FanoutInput is an immutable snapshot of the order fields the fan-out needs.
// The controller captures it under the per-order lock so the sends can run
// unlocked without reading shared order state.
type FanoutInput struct {
	OrderID       string
	KitchenID     int64
	ClientID      int64
	RawStatus     delivery.VendorStatus
	Status        delivery.Status
	ETAMinutes    *int
	ProofImageRef string
}

// NotificationFanout delivers the per-status-change notifications to the
// kitchen staff chats and, for customer-visible milestones, to the client.
// Recipients are independent: one failed send never suppresses another, and
// the joined error is a diagnostic, not a signal to retry.
type NotificationFanout struct {
	notifier    ports.Notifier
	registry    ports.KitchenRegistry
	sendTimeout time.Duration
}

// NewNotificationFanout creates a fan-out over the given notifier and kitchen
// registry. sendTimeout bounds each individual send and the registry lookup.
func NewNotificationFanout(
	notifier ports.Notifier,
	registry ports.KitchenRegistry,
	sendTimeout time.Duration,
) (NotificationFanout, error) {
	if notifier == nil || registry == nil {
		return NotificationFanout{}, ErrNotificationFanoutIsInvalid
	}
	if sendTimeout <= 0 {
		sendTimeout = 5 * time.Second
	}

	return NotificationFanout{
		notifier:    notifier,
		registry:    registry,
		sendTimeout: sendTimeout,
	}, nil
}

// Notify fans the status change out to all recipients.
// Kitchen staff always get a status line; the client is messaged only for the
// milestones in the client template table. Returns the join of all individual
// failures, or nil when every send succeeded.
func (f NotificationFanout) Notify(ctx context.Context, in FanoutInput) error {
	var sendErrors []error

	for _, chatID := range f.staffChats(ctx, in.KitchenID, &sendErrors) {
		if err := f.send(ctx, chatID, f.kitchenMessage(in), ""); err != nil {
			sendErrors = append(sendErrors, fmt.Errorf("kitchen chat %d: %w", chatID, err))
		}
	}

	if message, photoRef, ok := clientMessage(in); ok && in.ClientID != 0 {
		if err := f.send(ctx, in.ClientID, message, photoRef); err != nil {
			sendErrors = append(sendErrors, fmt.Errorf("client chat %d: %w", in.ClientID, err))
		}
	}

	return errors.Join(sendErrors...)
}

func (f NotificationFanout) staffChats(
	ctx context.Context,
	kitchenID int64,
	sendErrors *[]error,
) []int64 {
	lookupCtx, cancel := context.WithTimeout(ctx, f.sendTimeout)
	defer cancel()

	chats, err := f.registry.StaffChatIDs(lookupCtx, kitchenID)
	if err != nil {
		*sendErrors = append(*sendErrors, fmt.Errorf("kitchen registry: %w", err))
		return nil
	}
	return chats
}

func (f NotificationFanout) send(
	ctx context.Context,
	chatID int64,
	message string,
	photoRef string,
) error {
	sendCtx, cancel := context.WithTimeout(ctx, f.sendTimeout)
	defer cancel()

	return f.notifier.Send(sendCtx, chatID, message, photoRef)
}

func (f NotificationFanout) kitchenMessage(in FanoutInput) string {
	message := fmt.Sprintf("Order %s: courier status is now %q (%s)",
		in.OrderID, in.RawStatus, in.Status)
	if in.ETAMinutes != nil {
		message += fmt.Sprintf(", ETA %d min", *in.ETAMinutes)
	}
	return message
}

// clientMessage returns the customer-facing message for the milestone, if the
// raw status is one the customer should hear about.
func clientMessage(in FanoutInput) (message string, photoRef string, ok bool) {
	switch in.RawStatus {
	case delivery.VendorCourierDeparted:
		return fmt.Sprintf("Courier is on the way with your order %s.", in.OrderID), "", true
	case delivery.VendorOrderOnHands:
		return fmt.Sprintf("Your order %s has been picked up by the courier.", in.OrderID), "", true
	case delivery.VendorDelivered:
		return fmt.Sprintf("Your order %s has been delivered. Thank you!", in.OrderID),
			in.ProofImageRef, true
	default:
		return "", "", false
	}
}
