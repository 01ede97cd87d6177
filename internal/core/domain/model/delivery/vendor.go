package delivery

// VendorStatus is the raw status token reported by the courier integration.
// The vocabulary is closed but external: tokens outside the known set are
// expected operational input, not an error.
type VendorStatus string

const (
	VendorCreated         VendorStatus = "created"
	VendorCourierAssigned VendorStatus = "courier_assigned"
	VendorCourierDeparted VendorStatus = "courier_departed"
	VendorOrderOnHands    VendorStatus = "order_on_hands"
	VendorDelivered       VendorStatus = "delivered"
	VendorCancelled       VendorStatus = "cancelled"
)

// getVendorStatusMap returns the closed vendor-to-canonical mapping table.
func getVendorStatusMap() map[VendorStatus]Status {
	return map[VendorStatus]Status{
		VendorCreated:         StatusNew,
		VendorCourierAssigned: StatusInProgress,
		VendorCourierDeparted: StatusInProgress,
		VendorOrderOnHands:    StatusInProgress,
		VendorDelivered:       StatusDelivered,
		VendorCancelled:       StatusCancelled,
	}
}

// Normalize maps a vendor status token to its canonical Status.
// The second return value reports whether the token is known; callers must
// still acknowledge updates carrying unknown tokens and keep the raw value
// as a diagnostic.
func Normalize(raw VendorStatus) (Status, bool) {
	status, ok := getVendorStatusMap()[raw]
	return status, ok
}

// String returns the raw vendor token.
func (v VendorStatus) String() string {
	return string(v)
}
