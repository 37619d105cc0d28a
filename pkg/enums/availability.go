package enums

// Availability describes stock status for a store/product pairing.
type Availability string

const (
	AvailabilityInStock    Availability = "in-stock"
	AvailabilityLowStock   Availability = "low-stock"
	AvailabilityOutOfStock Availability = "out-of-stock"
)

// String implements fmt.Stringer.
func (a Availability) String() string {
	return string(a)
}
