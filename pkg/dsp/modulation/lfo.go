// Package modulation provides LFO-driven effects: tremolo, auto-pan, pitch
// drift and phaser.
package modulation

import (
	"math"
)

// LFO rate limits in Hz
const (
	MinRate = 0.01
	MaxRate = 20.0
)

// LFO is a sine oscillator with phase kept in cycles, [0, 1).
type LFO struct {
	sampleRate float64
	frequency  float64
	phase      float64
	inc        float64
}

// NewLFO starts at 1 Hz, phase 0.
func NewLFO(sampleRate float64) *LFO {
	l := &LFO{sampleRate: sampleRate}
	l.SetFrequency(1.0)
	return l
}

// SetFrequency clamps hz to [MinRate, MaxRate].
func (l *LFO) SetFrequency(hz float64) {
	l.frequency = math.Max(MinRate, math.Min(MaxRate, hz))
	l.inc = l.frequency / l.sampleRate
}

func (l *LFO) Frequency() float64 {
	return l.frequency
}

// SetPhase wraps phase into [0, 1).
func (l *LFO) SetPhase(phase float64) {
	l.phase = phase - math.Floor(phase)
}

func (l *LFO) Phase() float64 {
	return l.phase
}

// Value is the output at the current phase, in [-1, 1].
func (l *LFO) Value() float64 {
	return math.Sin(2 * math.Pi * l.phase)
}

// Process returns Value and advances one sample.
func (l *LFO) Process() float64 {
	v := l.Value()
	if l.phase += l.inc; l.phase >= 1 {
		l.phase--
	}
	return v
}

func (l *LFO) Reset() {
	l.phase = 0
}
