// Package mix provides dry/wet blending.
package mix

// DryWet performs a dry/wet mix between two signals.
// amount: 0.0 = 100% dry, 1.0 = 100% wet
func DryWet(dry, wet, amount float64) float64 {
	return dry*(1.0-amount) + wet*amount
}
