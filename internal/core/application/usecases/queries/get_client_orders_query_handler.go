package queries

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// GetClientOrdersQueryHandler reads one client's orders from the database.
//
// Example:
//
//	handler := NewGetClientOrdersQueryHandler(db)
//	query, _ := NewGetClientOrdersQuery(1001)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("failed to get client orders: %v", err)
//	}
type GetClientOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetClientOrdersQueryHandler creates a handler for client order queries.
// Requires a GORM database connection for query execution.
func NewGetClientOrdersQueryHandler(db *gorm.DB) GetClientOrdersQueryHandler {
	return GetClientOrdersQueryHandler{db: db}
}

// Handle executes the query and returns the client's orders sorted by id.
func (h GetClientOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetClientOrdersQuery,
) ([]GetClientOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetClientOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			delivery_status,
			courier_status_detail,
			eta_minutes,
			courier_updated_at,
			delivery_confirmed_at
		FROM orders
		WHERE client_id = ?
		ORDER BY id
	`, query.ClientID()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetClientOrdersQueryResponse
		var status, rawStatus sql.NullString
		var etaMinutes sql.NullInt64
		var courierUpdatedAt, deliveryConfirmedAt sql.NullTime

		err = rows.Scan(
			&orderResp.OrderID,
			&status,
			&rawStatus,
			&etaMinutes,
			&courierUpdatedAt,
			&deliveryConfirmedAt,
		)
		if err != nil {
			return nil, err
		}

		orderResp.Status = status.String
		orderResp.RawStatus = rawStatus.String
		if etaMinutes.Valid {
			eta := int(etaMinutes.Int64)
			orderResp.EtaMinutes = &eta
		}
		if courierUpdatedAt.Valid {
			at := courierUpdatedAt.Time
			orderResp.CourierUpdatedAt = &at
		}
		if deliveryConfirmedAt.Valid {
			at := deliveryConfirmedAt.Time
			orderResp.DeliveryConfirmedAt = &at
		}

		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
