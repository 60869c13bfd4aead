package enums

import "fmt"

// StockUpdateMode selects how a bulk inventory entry is applied to a variant.
type StockUpdateMode string

const (
	StockUpdateModeSet      StockUpdateMode = "set"
	StockUpdateModeIncrease StockUpdateMode = "increase"
	StockUpdateModeDecrease StockUpdateMode = "decrease"
)

var validStockUpdateModes = []StockUpdateMode{
	StockUpdateModeSet,
	StockUpdateModeIncrease,
	StockUpdateModeDecrease,
}

// String implements fmt.Stringer.
func (m StockUpdateMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known StockUpdateMode.
func (m StockUpdateMode) IsValid() bool {
	for _, candidate := range validStockUpdateModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseStockUpdateMode converts raw input into a StockUpdateMode.
func ParseStockUpdateMode(value string) (StockUpdateMode, error) {
	for _, candidate := range validStockUpdateModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock update mode %q", value)
}
