// Package interpolation provides sample interpolation for fractional
// delay reads.
package interpolation

// Linear performs linear interpolation between two samples.
// frac is the fractional position between y0 and y1 (0.0 to 1.0).
func Linear(y0, y1, frac float64) float64 {
	return y0 + (y1-y0)*frac
}
