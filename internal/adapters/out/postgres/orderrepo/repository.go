package orderrepo

import (
	"context"
	"errors"

	"courierbridge/internal/core/ports"
	"courierbridge/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDurableStore implements ports.DurableStore using GORM.
type GormDurableStore struct {
	db *gorm.DB
}

// NewGormDurableStore creates a new GORM durable order store.
func NewGormDurableStore(db *gorm.DB) *GormDurableStore {
	return &GormDurableStore{db: db}
}

// Find retrieves an order row by canonical id or courier-assigned external id.
// Returns an ObjectNotFoundError when no row matches either column.
func (s *GormDurableStore) Find(
	ctx context.Context,
	identifier string,
) (*ports.OrderSnapshot, error) {
	if identifier == "" {
		return nil, errs.NewValueIsRequiredError("identifier")
	}

	var dto OrderDTO
	err := s.db.WithContext(ctx).
		First(&dto, "id = ? OR external_delivery_id = ?", identifier, identifier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", identifier)
		}
		return nil, err
	}

	return toSnapshot(dto), nil
}

// UpsertDeliveryFields writes the delivery columns for the order with the
// given canonical id. Nil optional fields leave the column untouched. An
// absent row is tolerated: the durable store may lag behind the working set
// and the next sync attempt will catch up.
func (s *GormDurableStore) UpsertDeliveryFields(
	ctx context.Context,
	canonicalID string,
	fields ports.DeliveryFields,
) error {
	if canonicalID == "" {
		return errs.NewValueIsRequiredError("canonical id")
	}

	updates := map[string]any{
		"delivery_status":       fields.Status,
		"courier_status_detail": fields.RawStatus,
		"synced_at":             fields.SyncedAt,
	}
	if fields.ExternalID != nil {
		updates["external_delivery_id"] = *fields.ExternalID
	}
	if fields.EtaMinutes != nil {
		updates["eta_minutes"] = *fields.EtaMinutes
	}
	if fields.LastError != nil {
		updates["last_error"] = *fields.LastError
	}
	if fields.ConfirmedAt != nil {
		updates["delivery_confirmed_at"] = *fields.ConfirmedAt
	}
	if fields.CourierUpdatedAt != nil {
		updates["courier_updated_at"] = *fields.CourierUpdatedAt
	}

	return s.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", canonicalID).
		Updates(updates).Error
}
