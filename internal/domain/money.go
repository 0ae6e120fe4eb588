package domain

import (
	"fmt"
	"math"
)

// Currency is the fixed display currency for the storefront.
const Currency = "GBP"

// MinorUnits converts a major-unit GBP amount to integer pence. Prices are
// carried as decimal floats throughout the catalog and cart; rounding to
// minor units happens exactly once, at the payment boundary.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FormatGBP renders a major-unit amount in the fixed two-decimal,
// pound-prefixed display format.
func FormatGBP(amount float64) string {
	return fmt.Sprintf("£%.2f", amount)
}
