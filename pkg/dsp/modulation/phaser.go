package modulation

import (
	"math"

	"github.com/justyntemme/dynacore/pkg/dsp/mix"
)

// Phaser sweep range and fixed settings
const (
	PhaserMinFreq  = 200.0
	PhaserMaxFreq  = 2000.0
	PhaserStages   = 4
	PhaserFeedback = 0.5
	// PhaserTailMs covers the feedback ring-out of the lowest stage setting
	PhaserTailMs = 20.0
)

// AllPassFilter implements a first-order all-pass filter for phaser stages
type AllPassFilter struct {
	a1    float64
	state float64
}

// SetFrequency sets the break frequency of the stage
func (f *AllPassFilter) SetFrequency(freq, sampleRate float64) {
	f.a1 = allPassCoef(freq, sampleRate)
}

// bilinear transform: a1 = (1 - tan(pi*fc/fs)) / (1 + tan(pi*fc/fs))
func allPassCoef(freq, sampleRate float64) float64 {
	tanFreq := math.Tan(math.Pi * freq / sampleRate)
	return (1.0 - tanFreq) / (1.0 + tanFreq)
}

// Process processes one sample
func (f *AllPassFilter) Process(input float64) float64 {
	output := f.a1*input + f.state
	f.state = input - f.a1*output
	return output
}

// Reset resets the filter state
func (f *AllPassFilter) Reset() {
	f.state = 0
}

type phaserChannel struct {
	stages   [PhaserStages]AllPassFilter
	feedback float64
}

// Phaser sweeps a cascade of all-pass stages with a shared sine LFO and
// blends the result with the dry signal. The wet mix is depth/2.
type Phaser struct {
	sampleRate float64
	mix        float64
	maxFreq    float64
	lfo        *LFO
	channels   []phaserChannel
}

// NewPhaser creates a phaser for up to channels channels
func NewPhaser(sampleRate float64, channels int) *Phaser {
	p := &Phaser{
		sampleRate: sampleRate,
		maxFreq:    math.Min(PhaserMaxFreq, sampleRate/4),
		lfo:        NewLFO(sampleRate),
		channels:   make([]phaserChannel, channels),
	}
	p.lfo.SetFrequency(0.5)
	return p
}

// SetRate sets the sweep rate in Hz
func (p *Phaser) SetRate(hz float64) {
	p.lfo.SetFrequency(hz)
}

// SetDepth sets the effect depth (0-1)
func (p *Phaser) SetDepth(depth float64) {
	p.mix = math.Max(0.0, math.Min(1.0, depth)) / 2.0
}

// Mix returns the current wet mix
func (p *Phaser) Mix() float64 {
	return p.mix
}

// Tail returns how many samples the phaser rings on after silent input
func (p *Phaser) Tail() float64 {
	return PhaserTailMs * p.sampleRate / 1000.0
}

// sweep maps an LFO value in [-1, 1] onto the log frequency range
func (p *Phaser) sweep(lfo float64) float64 {
	norm := (lfo + 1.0) / 2.0
	logMin := math.Log(PhaserMinFreq)
	logMax := math.Log(p.maxFreq)
	return math.Exp(logMin + (logMax-logMin)*norm)
}

// Process filters every channel in place. Channels beyond the number the
// phaser was built for pass through.
func (p *Phaser) Process(channels [][]float64) {
	n := frames(channels)
	for i := 0; i < n; i++ {
		a1 := allPassCoef(p.sweep(p.lfo.Process()), p.sampleRate)
		for c, ch := range channels {
			if c >= len(p.channels) {
				break
			}
			st := &p.channels[c]

			wet := ch[i] + st.feedback*PhaserFeedback
			wet = math.Max(-1.0, math.Min(1.0, wet))
			for s := range st.stages {
				st.stages[s].a1 = a1
				wet = st.stages[s].Process(wet)
			}
			st.feedback = wet

			ch[i] = mix.DryWet(ch[i], wet, p.mix)
		}
	}
}

// Reset clears the filter states and rewinds the LFO
func (p *Phaser) Reset() {
	for c := range p.channels {
		for s := range p.channels[c].stages {
			p.channels[c].stages[s].Reset()
		}
		p.channels[c].feedback = 0
	}
	p.lfo.Reset()
}
