package modulation

import (
	"math"
)

// Tremolo implements an amplitude modulation effect
type Tremolo struct {
	sampleRate float64
	depth      float64 // 0-1
	lfo        *LFO
}

// NewTremolo creates a 5 Hz, 50% tremolo
func NewTremolo(sampleRate float64) *Tremolo {
	t := &Tremolo{
		sampleRate: sampleRate,
		depth:      0.5,
		lfo:        NewLFO(sampleRate),
	}
	t.lfo.SetFrequency(5.0)
	return t
}

// SetRate sets the tremolo rate in Hz
func (t *Tremolo) SetRate(hz float64) {
	t.lfo.SetFrequency(hz)
}

// SetDepth sets the modulation depth (0-1)
func (t *Tremolo) SetDepth(depth float64) {
	t.depth = math.Max(0.0, math.Min(1.0, depth))
}

// Gain returns the next modulation gain in [1-depth, 1]
func (t *Tremolo) Gain() float64 {
	return 1.0 - t.depth*(1.0-t.lfo.Process())/2.0
}

// Process modulates every channel in place with a shared LFO
func (t *Tremolo) Process(channels [][]float64) {
	n := frames(channels)
	for i := 0; i < n; i++ {
		g := t.Gain()
		for _, ch := range channels {
			ch[i] *= g
		}
	}
}

// Reset resets the tremolo state
func (t *Tremolo) Reset() {
	t.lfo.Reset()
}

// frames returns the shortest channel length
func frames(channels [][]float64) int {
	if len(channels) == 0 {
		return 0
	}
	n := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}
	return n
}
