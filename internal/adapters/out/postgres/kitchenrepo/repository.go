// Package kitchenrepo reads per-kitchen notification routing from PostgreSQL.
package kitchenrepo

import (
	"context"

	"gorm.io/gorm"
)

// KitchenChatDTO represents one staff chat subscription of a kitchen.
type KitchenChatDTO struct {
	KitchenID int64 `gorm:"primaryKey;autoIncrement:false"`
	ChatID    int64 `gorm:"primaryKey;autoIncrement:false"`
}

// TableName specifies the database table name for kitchen chat rows.
func (KitchenChatDTO) TableName() string {
	return "kitchen_chats"
}

// GormKitchenRegistry implements ports.KitchenRegistry using GORM.
type GormKitchenRegistry struct {
	db *gorm.DB
}

// NewGormKitchenRegistry creates a new GORM kitchen registry.
func NewGormKitchenRegistry(db *gorm.DB) *GormKitchenRegistry {
	return &GormKitchenRegistry{db: db}
}

// StaffChatIDs returns the staff chats subscribed to the kitchen's delivery
// updates. A kitchen without subscriptions yields an empty slice, not an error.
func (r *GormKitchenRegistry) StaffChatIDs(ctx context.Context, kitchenID int64) ([]int64, error) {
	chats := make([]int64, 0)
	err := r.db.WithContext(ctx).
		Model(&KitchenChatDTO{}).
		Where("kitchen_id = ?", kitchenID).
		Order("chat_id").
		Pluck("chat_id", &chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}
