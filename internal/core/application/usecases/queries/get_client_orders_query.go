// Package queries contains the read-side operations of the service.
// Queries bypass the domain model and read the durable store directly.
package queries

import (
	"errors"
	"time"

	"courierbridge/internal/pkg/guard"
)

var (
	ErrGetClientOrdersQueryIsNotConstructed = errors.New(
		"GetClientOrdersQuery must be created via NewGetClientOrdersQuery constructor",
	)
	ErrClientIDIsInvalid = errors.New("client id must be greater than 0")
)

// GetClientOrdersQuery retrieves all orders belonging to one client.
//
// Example:
//
//	query, err := NewGetClientOrdersQuery(1001)
//	if err != nil {
//	    return err
//	}
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get client orders: %w", err)
//	}
//	fmt.Printf("client has %d orders\n", len(orders))
type GetClientOrdersQuery struct {
	clientID int64

	guard guard.ConstructorGuard
}

// NewGetClientOrdersQuery creates a query for one client's orders.
// Validates that the client id is positive.
func NewGetClientOrdersQuery(clientID int64) (GetClientOrdersQuery, error) {
	if clientID <= 0 {
		return GetClientOrdersQuery{}, ErrClientIDIsInvalid
	}

	return GetClientOrdersQuery{
		clientID: clientID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetClientOrdersQueryIsNotConstructed if validation fails.
func (q GetClientOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetClientOrdersQueryIsNotConstructed)
}

// ClientID returns the client whose orders are requested.
func (q GetClientOrdersQuery) ClientID() int64 {
	return q.clientID
}

// GetClientOrdersQueryResponse is one order row as the client sees it.
type GetClientOrdersQueryResponse struct {
	OrderID             string
	Status              string
	RawStatus           string
	EtaMinutes          *int
	CourierUpdatedAt    *time.Time
	DeliveryConfirmedAt *time.Time
}
