package ports

import (
	"context"
	"time"
)

// OrderSnapshot is the durable store's view of an order, used by the locator
// to reconstruct orders absent from the live working set.
type OrderSnapshot struct {
	CanonicalID        string
	ExternalDeliveryID string
	ClientID           int64
	KitchenID          int64
	Source             string
	DeliveryProvider   string
	CourierDecision    string
	Status             string
}

// DeliveryFields carries the delivery columns written back to the durable
// store by the reconciliation side effects. Nil optional fields are left
// untouched by the upsert.
type DeliveryFields struct {
	Status           string
	RawStatus        string
	ExternalID       *string
	EtaMinutes       *int
	LastError        *string
	ConfirmedAt      *time.Time
	CourierUpdatedAt *time.Time
	SyncedAt         time.Time
}

// DurableStore is the system of record for order existence.
// Its failures are soft from the controller's point of view: a failed Find is
// treated as a reconstruction miss, a failed upsert is recorded as a sync
// diagnostic and never propagated.
type DurableStore interface {
	// Find looks an order up by canonical or courier-assigned identifier,
	// across all tenant partitions. Returns an ObjectNotFoundError when no
	// record matches.
	Find(ctx context.Context, identifier string) (*OrderSnapshot, error)

	// UpsertDeliveryFields writes the delivery columns for the order with the
	// given canonical id. An absent record is tolerated without error.
	UpsertDeliveryFields(ctx context.Context, canonicalID string, fields DeliveryFields) error
}
