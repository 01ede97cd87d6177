// Package orderrepo implements the durable order store on PostgreSQL.
// It owns the orders table mapping and the delivery-column upsert used by the
// reconciliation side effects and the sync retry job.
package orderrepo

import (
	"time"

	"courierbridge/internal/core/ports"
)

// OrderDTO represents the database structure for the orders table.
// The reconciliation core owns only the delivery columns; the identity and
// routing columns are written by the order-creation flow and read here.
type OrderDTO struct {
	ID                 string  `gorm:"type:text;primaryKey"`
	ExternalDeliveryID *string `gorm:"type:text;index"`
	ClientID           int64
	KitchenID          int64   `gorm:"index"`
	Source             string  `gorm:"type:text"`
	DeliveryProvider   string  `gorm:"type:text"`
	CourierDecision    string  `gorm:"type:text"`

	DeliveryStatus      *string `gorm:"type:text"`
	CourierStatusDetail *string `gorm:"type:text"`
	EtaMinutes          *int
	LastError           *string `gorm:"type:text"`
	CourierUpdatedAt    *time.Time
	DeliveryConfirmedAt *time.Time
	SyncedAt            *time.Time
}

// TableName specifies the database table name for order rows.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// toSnapshot converts a database row to the locator's snapshot view.
func toSnapshot(dto OrderDTO) *ports.OrderSnapshot {
	snapshot := &ports.OrderSnapshot{
		CanonicalID:      dto.ID,
		ClientID:         dto.ClientID,
		KitchenID:        dto.KitchenID,
		Source:           dto.Source,
		DeliveryProvider: dto.DeliveryProvider,
		CourierDecision:  dto.CourierDecision,
	}
	if dto.ExternalDeliveryID != nil {
		snapshot.ExternalDeliveryID = *dto.ExternalDeliveryID
	}
	if dto.DeliveryStatus != nil {
		snapshot.Status = *dto.DeliveryStatus
	}
	return snapshot
}
