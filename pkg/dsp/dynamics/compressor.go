// Package dynamics provides dynamics processing effects
package dynamics

import (
	"math"

	"github.com/justyntemme/dynacore/pkg/dsp/envelope"
	"github.com/justyntemme/dynacore/pkg/dsp/gain"
	"github.com/justyntemme/dynacore/pkg/dsp/mix"
)

// KneeType defines the compressor knee characteristic
type KneeType int

const (
	// KneeHard provides hard knee compression
	KneeHard KneeType = iota
	// KneeSoft provides soft knee compression
	KneeSoft
)

// floorDB is the lowest detector level in dB
const floorDB = -96.0

// Compressor implements a feed-forward compressor with parallel mix
type Compressor struct {
	sampleRate float64

	threshold  float64 // dB
	ratio      float64
	attack     float64 // seconds
	release    float64 // seconds
	kneeWidth  float64 // dB
	makeupGain float64 // dB
	kneeType   KneeType
	mix        float64 // 0 = dry, 1 = fully compressed

	detector *envelope.Detector

	lastGainReduction float64 // For metering
}

// NewCompressor creates a new compressor
func NewCompressor(sampleRate float64) *Compressor {
	c := &Compressor{
		sampleRate: sampleRate,
		threshold:  -20.0,
		ratio:      4.0,
		attack:     0.005,
		release:    0.050,
		kneeWidth:  2.0,
		kneeType:   KneeSoft,
		mix:        1.0,
		detector:   envelope.NewDetector(sampleRate, envelope.ModePeak),
	}

	c.detector.SetType(envelope.TypeLogarithmic)
	c.detector.SetTimeConstants(c.attack, c.release)

	return c
}

// SetThreshold sets the compression threshold in dB
func (c *Compressor) SetThreshold(dB float64) {
	c.threshold = dB
}

// SetRatio sets the compression ratio (1.0 = no compression)
func (c *Compressor) SetRatio(ratio float64) {
	c.ratio = math.Max(1.0, ratio)
}

// SetAttack sets the attack time in seconds
func (c *Compressor) SetAttack(seconds float64) {
	if seconds == c.attack {
		return
	}
	c.attack = math.Max(0.0001, seconds)
	c.detector.SetAttack(c.attack)
}

// SetRelease sets the release time in seconds
func (c *Compressor) SetRelease(seconds float64) {
	if seconds == c.release {
		return
	}
	c.release = math.Max(0.001, seconds)
	c.detector.SetRelease(c.release)
}

// SetKnee sets the knee type and width
func (c *Compressor) SetKnee(kneeType KneeType, widthDB float64) {
	c.kneeType = kneeType
	c.kneeWidth = math.Max(0.0, widthDB)
}

// SetMakeupGain sets the makeup gain in dB
func (c *Compressor) SetMakeupGain(dB float64) {
	c.makeupGain = dB
}

// SetMix sets the parallel compression mix (0-1)
func (c *Compressor) SetMix(mix float64) {
	c.mix = math.Max(0.0, math.Min(1.0, mix))
}

// GainReduction returns the most recent gain reduction in dB (for metering)
func (c *Compressor) GainReduction() float64 {
	return c.lastGainReduction
}

// computeGain calculates the gain reduction for a given input level
func (c *Compressor) computeGain(inputDB float64) float64 {
	if inputDB < c.threshold-c.kneeWidth/2 {
		return 0.0
	}

	if inputDB > c.threshold+c.kneeWidth/2 {
		return (inputDB - c.threshold) * (1.0 - 1.0/c.ratio)
	}

	if c.kneeType == KneeSoft && c.kneeWidth > 0 {
		// quadratic blend across the knee: 0 at its bottom, full ratio at its top
		kneePos := (inputDB - (c.threshold - c.kneeWidth/2)) / c.kneeWidth
		return kneePos * kneePos * (inputDB - c.threshold) * (1.0 - 1.0/c.ratio)
	}

	return 0.0
}

// gainFor advances the detector by one sample of level and returns the
// linear gain to apply.
func (c *Compressor) gainFor(level float64) float64 {
	env := c.detector.Detect(level)

	inputDB := math.Max(gain.LinearToDb(env), floorDB)

	c.lastGainReduction = c.computeGain(inputDB)
	return math.Pow(10.0, (c.makeupGain-c.lastGainReduction)/20.0)
}

// Process processes a single sample
func (c *Compressor) Process(input float64) float64 {
	g := c.gainFor(input)
	return input * mix.DryWet(1.0, g, c.mix)
}

// ProcessBuffer processes a mono buffer in place
func (c *Compressor) ProcessBuffer(buffer []float64) {
	for i := range buffer {
		buffer[i] = c.Process(buffer[i])
	}
}

// ProcessLinked processes every channel in place with one shared detector.
// The detector follows the loudest channel so the stereo image does not shift.
func (c *Compressor) ProcessLinked(channels [][]float64) {
	if len(channels) == 0 {
		return
	}
	n := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}

	for i := 0; i < n; i++ {
		level := 0.0
		for _, ch := range channels {
			if a := math.Abs(ch[i]); a > level {
				level = a
			}
		}

		g := mix.DryWet(1.0, c.gainFor(level), c.mix)
		for _, ch := range channels {
			ch[i] *= g
		}
	}
}

// Reset resets the compressor state
func (c *Compressor) Reset() {
	c.detector.Reset()
	c.lastGainReduction = 0.0
}
