package enums

import "fmt"

// ProductionStatus reflects what happened to a batch's surplus cells.
type ProductionStatus string

const (
	ProductionStatusActive  ProductionStatus = "active"
	ProductionStatusSold    ProductionStatus = "sold"
	ProductionStatusExpired ProductionStatus = "expired"
)

var validProductionStatuses = []ProductionStatus{
	ProductionStatusActive,
	ProductionStatusSold,
	ProductionStatusExpired,
}

// String implements fmt.Stringer.
func (s ProductionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductionStatus.
func (s ProductionStatus) IsValid() bool {
	for _, candidate := range validProductionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductionStatus converts raw input into a ProductionStatus.
func ParseProductionStatus(value string) (ProductionStatus, error) {
	for _, candidate := range validProductionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid production status %q", value)
}
