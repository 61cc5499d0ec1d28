package cart

import "math"

// DefaultTaxRate is the fixed sales tax rate applied to the cart subtotal.
const DefaultTaxRate = 0.16

// Round2 rounds to the cent, half away from zero. All monetary rounding in the
// engine goes through here, at the point each line total is computed, so
// repeated increments never accumulate sub-cent drift.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
