// Package envelope provides envelope detectors for dynamics processing
package envelope

import (
	"math"
)

// DetectorMode defines the envelope detection mode
type DetectorMode int

const (
	// ModePeak detects the peak level
	ModePeak DetectorMode = iota
	// ModeRMS detects the RMS (Root Mean Square) level
	ModeRMS
)

// DetectorType defines the envelope detector response type
type DetectorType int

const (
	// TypeLinear uses plain one-pole time constants
	TypeLinear DetectorType = iota
	// TypeLogarithmic reaches ~90% of a step within the attack/release time
	TypeLogarithmic
)

// Detector follows the level of a signal with separate attack and release
type Detector struct {
	sampleRate float64
	mode       DetectorMode
	detType    DetectorType

	attack  float64 // seconds
	release float64 // seconds

	attackCoef  float64
	releaseCoef float64

	envelope float64

	// RMS window
	rmsWindow []float64
	rmsIndex  int
	rmsSum    float64
}

// NewDetector creates a new envelope detector
func NewDetector(sampleRate float64, mode DetectorMode) *Detector {
	d := &Detector{
		sampleRate: sampleRate,
		mode:       mode,
		detType:    TypeLinear,
		attack:     0.001,
		release:    0.100,
	}

	if mode == ModeRMS {
		d.SetRMSWindow(3.0)
	}

	d.updateCoefficients()
	return d
}

// SetType sets the detector response type
func (d *Detector) SetType(detType DetectorType) {
	d.detType = detType
	d.updateCoefficients()
}

// SetAttack sets the attack time in seconds
func (d *Detector) SetAttack(seconds float64) {
	d.attack = math.Max(0.0001, seconds)
	d.updateCoefficients()
}

// SetRelease sets the release time in seconds
func (d *Detector) SetRelease(seconds float64) {
	d.release = math.Max(0.0001, seconds)
	d.updateCoefficients()
}

// SetTimeConstants sets attack and release times together
func (d *Detector) SetTimeConstants(attack, release float64) {
	d.attack = math.Max(0.0001, attack)
	d.release = math.Max(0.0001, release)
	d.updateCoefficients()
}

// SetRMSWindow sets the RMS window length in milliseconds.
// It allocates and must not be called from the audio path.
func (d *Detector) SetRMSWindow(ms float64) {
	n := int(d.sampleRate * ms / 1000.0)
	if n < 1 {
		n = 1
	}
	d.rmsWindow = make([]float64, n)
	d.rmsIndex = 0
	d.rmsSum = 0
}

func (d *Detector) updateCoefficients() {
	k := 1.0
	if d.detType == TypeLogarithmic {
		k = 2.2
	}
	d.attackCoef = 1.0 - math.Exp(-k/(d.attack*d.sampleRate))
	d.releaseCoef = 1.0 - math.Exp(-k/(d.release*d.sampleRate))
}

// Detect processes a single sample and returns the envelope value
func (d *Detector) Detect(input float64) float64 {
	var level float64

	switch d.mode {
	case ModeRMS:
		squared := input * input
		d.rmsSum += squared - d.rmsWindow[d.rmsIndex]
		d.rmsWindow[d.rmsIndex] = squared
		d.rmsIndex = (d.rmsIndex + 1) % len(d.rmsWindow)
		// running sum can drift slightly negative
		level = math.Sqrt(math.Max(0, d.rmsSum/float64(len(d.rmsWindow))))
	default:
		level = math.Abs(input)
	}

	if level > d.envelope {
		d.envelope += (level - d.envelope) * d.attackCoef
		// attacks under about two samples capture peaks immediately
		if d.mode == ModePeak && d.attackCoef > 0.5 {
			d.envelope = level
		}
	} else {
		d.envelope += (level - d.envelope) * d.releaseCoef
	}

	return d.envelope
}

// Process fills output with the envelope of input
func (d *Detector) Process(input, output []float64) {
	for i := range input {
		output[i] = d.Detect(input[i])
	}
}

// Envelope returns the current envelope value
func (d *Detector) Envelope() float64 {
	return d.envelope
}

// Reset resets the detector state
func (d *Detector) Reset() {
	d.envelope = 0
	for i := range d.rmsWindow {
		d.rmsWindow[i] = 0
	}
	d.rmsSum = 0
	d.rmsIndex = 0
}
