// Package param provides parameter management: atomic parameter values,
// a registry, builders, formatters and value smoothing.
package param

import (
	"math"
)

// SmoothingType selects how a Smoother approaches its target.
type SmoothingType int

const (
	// LinearSmoothing reaches the target in a fixed number of samples
	LinearSmoothing SmoothingType = iota
	// ExponentialSmoothing uses a one-pole filter
	ExponentialSmoothing
)

// settleEpsilon is the distance at which a smoother snaps to its target.
const settleEpsilon = 1e-4

// Smoother glides a control value toward a target to avoid zipper noise.
type Smoother struct {
	kind    SmoothingType
	rate    float64 // samples to target (linear) or pole (exponential)
	current float64
	target  float64
	step    float64
	active  bool
}

// NewSmoother takes samples-to-target for linear smoothing, or a pole in
// (0, 1) for exponential smoothing.
func NewSmoother(kind SmoothingType, rate float64) *Smoother {
	return &Smoother{kind: kind, rate: rate}
}

// NewTimedSmoother settles in about ms milliseconds at sampleRate.
func NewTimedSmoother(kind SmoothingType, sampleRate, ms float64) *Smoother {
	s := NewSmoother(kind, 0)
	s.SetTime(sampleRate, ms)
	return s
}

// SetTime derives the rate from a settle time. Exponential smoothers are
// 60 dB closer to the target after that time.
func (s *Smoother) SetTime(sampleRate, ms float64) {
	samples := sampleRate * ms / 1000
	if s.kind == LinearSmoothing {
		s.rate = samples
		return
	}
	s.rate = 0
	if samples > 0 {
		s.rate = math.Exp(-math.Ln10 * 3 / samples)
	}
}

// SetTarget starts a glide. Targets within settleEpsilon of the current
// one are ignored.
func (s *Smoother) SetTarget(target float64) {
	if math.Abs(target-s.target) < settleEpsilon {
		return
	}
	s.target = target
	s.active = true
	if s.kind == LinearSmoothing {
		s.step = target - s.current
		if s.rate >= 1 {
			s.step /= s.rate
		}
	}
}

// Next advances one sample.
func (s *Smoother) Next() float64 {
	if !s.active {
		return s.current
	}
	if s.kind == ExponentialSmoothing {
		s.current = s.target + (s.current-s.target)*s.rate
		s.settleIf(math.Abs(s.current-s.target) < settleEpsilon)
	} else {
		s.current += s.step
		s.settleIf(s.passed())
	}
	return s.current
}

// Skip advances n samples and returns the value reached. Linear glides
// jump in one step.
func (s *Smoother) Skip(n int) float64 {
	if !s.active || n <= 0 {
		return s.current
	}
	if s.kind == LinearSmoothing {
		s.current += s.step * float64(n)
		s.settleIf(s.passed())
		return s.current
	}
	for ; n > 0 && s.active; n-- {
		s.Next()
	}
	return s.current
}

func (s *Smoother) passed() bool {
	if s.step >= 0 {
		return s.current >= s.target
	}
	return s.current <= s.target
}

func (s *Smoother) settleIf(done bool) {
	if done {
		s.current = s.target
		s.active = false
	}
}

// Current returns the value without advancing.
func (s *Smoother) Current() float64 {
	return s.current
}

func (s *Smoother) IsSmoothing() bool {
	return s.active
}

// Reset jumps to value and stops any glide.
func (s *Smoother) Reset(value float64) {
	s.current, s.target = value, value
	s.active = false
}
