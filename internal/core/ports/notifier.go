package ports

import "context"

// Notifier delivers a single chat message to a single recipient.
// Fire-and-forget from the controller's perspective: errors are recorded as
// diagnostics, never acted upon.
type Notifier interface {
	// Send delivers message to the recipient chat. A non-empty photoRef asks
	// the provider to attach the referenced photo.
	Send(ctx context.Context, recipient int64, message string, photoRef string) error
}

// KitchenRegistry resolves per-kitchen notification routing.
type KitchenRegistry interface {
	// StaffChatIDs returns the operations/kitchen chat recipients for a tenant.
	StaffChatIDs(ctx context.Context, kitchenID int64) ([]int64, error)
}
