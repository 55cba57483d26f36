// Package pan provides stereo panning operations.
package pan

import (
	"math"
)

// Law represents different panning laws
type Law int

const (
	// Linear uses linear panning (constant power not maintained)
	Linear Law = iota
	// ConstantPower uses sine/cosine panning (maintains constant power)
	ConstantPower
)

// Gains returns the left and right gains for a pan position.
// pan: -1.0 = hard left, 0.0 = center, 1.0 = hard right
func Gains(pan float64, law Law) (left, right float64) {
	pan = math.Max(-1.0, math.Min(1.0, pan))

	if law == Linear {
		return (1.0 - pan) * 0.5, (1.0 + pan) * 0.5
	}

	// [-1, 1] -> [0, pi/2]
	angle := (pan + 1.0) * math.Pi / 4.0
	return math.Cos(angle), math.Sin(angle)
}

// AutoPan sweeps a stereo signal between the channels with a sine LFO.
// Gains are constant power, scaled so the center position is unity.
type AutoPan struct {
	sampleRate float64
	phase      float64 // radians
	rate       float64 // Hz
	depth      float64 // 0-1
}

// NewAutoPan creates a new automatic panner
func NewAutoPan(sampleRate float64) *AutoPan {
	return &AutoPan{
		sampleRate: sampleRate,
		rate:       1.0,
		depth:      0.5,
	}
}

// SetRate updates the auto-pan rate in Hz
func (ap *AutoPan) SetRate(hz float64) {
	ap.rate = math.Max(0.01, math.Min(20.0, hz))
}

// SetDepth updates the auto-pan depth (0-1)
func (ap *AutoPan) SetDepth(depth float64) {
	ap.depth = math.Max(0.0, math.Min(1.0, depth))
}

// Position returns the current pan position without advancing
func (ap *AutoPan) Position() float64 {
	return math.Sin(ap.phase) * ap.depth
}

// Process pans the first two channels in place. Mono input is left
// untouched.
func (ap *AutoPan) Process(channels [][]float64) {
	if len(channels) < 2 {
		return
	}
	left, right := channels[0], channels[1]
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	phaseInc := 2.0 * math.Pi * ap.rate / ap.sampleRate
	for i := 0; i < n; i++ {
		gl, gr := Gains(ap.Position(), ConstantPower)
		left[i] *= gl * math.Sqrt2
		right[i] *= gr * math.Sqrt2

		ap.phase += phaseInc
		if ap.phase >= 2*math.Pi {
			ap.phase -= 2 * math.Pi
		}
	}
}

// Reset resets the auto-pan phase
func (ap *AutoPan) Reset() {
	ap.phase = 0
}
