package kernel

import (
	"strings"

	"courierbridge/internal/pkg/errs"
)

// ErrOrderIDIsRequired indicates that an OrderID was not properly initialized
// through NewOrderID. This error is returned when validating a zero-value OrderID.
var ErrOrderIDIsRequired = errs.NewValueIsRequiredError("order id must be created via NewOrderID")

// OrderID is a value object that represents the canonical, system-of-record
// identifier of an order. The identifier is assigned by the order-creation flow
// and is never reassigned; the courier integration may address the same order
// by a different, courier-assigned identifier, which is not an OrderID.
//
// The zero value of OrderID is invalid and must be constructed through
// NewOrderID. OrderID is immutable and safe for concurrent use.
//
// Example usage:
//
//	id, err := kernel.NewOrderID("ORD-1042")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(id.String()) // "ORD-1042"
type OrderID struct {
	value string
}

// NewOrderID creates an OrderID from its string form. Leading and trailing
// whitespace is trimmed; an empty identifier is rejected.
func NewOrderID(value string) (OrderID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return OrderID{}, errs.NewValueIsRequiredError("order id")
	}
	return OrderID{value: value}, nil
}

// String returns the canonical string form of the identifier.
// For a zero value OrderID this returns the empty string.
func (id OrderID) String() string {
	return id.value
}

// IsEqual compares two OrderIDs for equality.
func (id OrderID) IsEqual(other OrderID) bool {
	return id.value == other.value
}

// Validate checks that the OrderID was constructed through NewOrderID.
// Returns ErrOrderIDIsRequired for the zero value.
func (id OrderID) Validate() error {
	if id.value == "" {
		return ErrOrderIDIsRequired
	}
	return nil
}
