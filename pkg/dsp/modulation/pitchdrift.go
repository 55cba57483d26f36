package modulation

import (
	"math"

	"github.com/justyntemme/dynacore/pkg/dsp/delay"
)

// Pitch drift timing in milliseconds
const (
	DriftBaseDelayMs = 5.0
	DriftMaxSweepMs  = 3.0
)

// PitchDrift is a vibrato: a fractional delay swept by a sine LFO.
// At zero depth it is a pure delay of DriftBaseDelayMs.
type PitchDrift struct {
	sampleRate float64
	depth      float64 // 0-1
	lfo        *LFO
	lines      []*delay.Line
}

// NewPitchDrift creates a pitch drift for up to channels channels
func NewPitchDrift(sampleRate float64, channels int) *PitchDrift {
	maxSeconds := (DriftBaseDelayMs + DriftMaxSweepMs + 1.0) / 1000.0
	lines := make([]*delay.Line, channels)
	for i := range lines {
		lines[i] = delay.New(maxSeconds, sampleRate)
	}

	p := &PitchDrift{
		sampleRate: sampleRate,
		lfo:        NewLFO(sampleRate),
		lines:      lines,
	}
	p.lfo.SetFrequency(0.5)
	return p
}

// SetRate sets the drift rate in Hz
func (p *PitchDrift) SetRate(hz float64) {
	p.lfo.SetFrequency(hz)
}

// SetDepth sets the sweep depth (0-1)
func (p *PitchDrift) SetDepth(depth float64) {
	p.depth = math.Max(0.0, math.Min(1.0, depth))
}

// Latency returns the base delay in samples
func (p *PitchDrift) Latency() float64 {
	return DriftBaseDelayMs * p.sampleRate / 1000.0
}

// Tail returns the longest delay the sweep can reach, in samples
func (p *PitchDrift) Tail() float64 {
	return (DriftBaseDelayMs + DriftMaxSweepMs) * p.sampleRate / 1000.0
}

// Process delays every channel in place. Channels beyond the number the
// drift was built for pass through.
func (p *PitchDrift) Process(channels [][]float64) {
	n := frames(channels)
	base := p.Latency()
	sweep := p.depth * DriftMaxSweepMs * p.sampleRate / 1000.0

	for i := 0; i < n; i++ {
		// delay 1 is the current input, so offset by one
		d := 1.0 + base + sweep*p.lfo.Process()
		for c, ch := range channels {
			if c >= len(p.lines) {
				break
			}
			ch[i] = p.lines[c].Process(ch[i], d)
		}
	}
}

// Reset clears the delay lines and rewinds the LFO
func (p *PitchDrift) Reset() {
	for _, l := range p.lines {
		l.Reset()
	}
	p.lfo.Reset()
}
