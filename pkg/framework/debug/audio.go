package debug

import (
	"fmt"
	"math"
)

// ClipThreshold is the magnitude counted as clipping
const ClipThreshold = 1.0

// BlockReport describes problems found in a processed block
type BlockReport struct {
	Peak    float64
	NaN     int
	Inf     int
	Clipped int
}

// OK reports whether every sample was finite
func (r BlockReport) OK() bool {
	return r.NaN == 0 && r.Inf == 0
}

// Issues lists the problems as readable strings
func (r BlockReport) Issues() []string {
	var issues []string
	if r.NaN > 0 {
		issues = append(issues, fmt.Sprintf("%d NaN samples", r.NaN))
	}
	if r.Inf > 0 {
		issues = append(issues, fmt.Sprintf("%d infinite samples", r.Inf))
	}
	if r.Clipped > 0 {
		issues = append(issues, fmt.Sprintf("%d samples at or above %.1f (peak %.3f)", r.Clipped, ClipThreshold, r.Peak))
	}
	return issues
}

// CheckBlock scans every channel for non-finite and clipped samples
func CheckBlock(channels [][]float64) BlockReport {
	var r BlockReport
	for _, ch := range channels {
		for _, s := range ch {
			switch {
			case math.IsNaN(s):
				r.NaN++
				continue
			case math.IsInf(s, 0):
				r.Inf++
				continue
			}
			a := math.Abs(s)
			if a > r.Peak {
				r.Peak = a
			}
			if a >= ClipThreshold {
				r.Clipped++
			}
		}
	}
	return r
}
