// Package delay provides a fractional delay line for modulation effects
package delay

import (
	"github.com/justyntemme/dynacore/pkg/dsp/interpolation"
)

// Line implements a circular delay line with linear interpolation
type Line struct {
	buffer     []float64
	writePos   int
	sampleRate float64
}

// New creates a new delay line with the specified maximum delay time
func New(maxDelaySeconds, sampleRate float64) *Line {
	return &Line{
		buffer:     make([]float64, int(maxDelaySeconds*sampleRate)+2),
		sampleRate: sampleRate,
	}
}

// MaxDelay returns the longest readable delay in samples
func (d *Line) MaxDelay() float64 {
	return float64(len(d.buffer) - 2)
}

// Reset clears the delay buffer
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

// Write adds a sample to the delay line
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read gets the sample written delaySamples ago. A delay of 1 returns the
// most recent write; delays are clamped to [1, MaxDelay].
func (d *Line) Read(delaySamples float64) float64 {
	if delaySamples < 1 {
		delaySamples = 1
	} else if max := d.MaxDelay(); delaySamples > max {
		delaySamples = max
	}

	size := len(d.buffer)
	readPos := float64(d.writePos) - delaySamples
	if readPos < 0 {
		readPos += float64(size)
	}

	i := int(readPos)
	frac := readPos - float64(i)
	if i >= size {
		i -= size
	}
	return interpolation.Linear(d.buffer[i], d.buffer[(i+1)%size], frac)
}

// Process writes input and reads with the given delay in one step
func (d *Line) Process(input, delaySamples float64) float64 {
	d.Write(input)
	return d.Read(delaySamples)
}

// SamplesFromMs converts milliseconds to samples at the line's rate
func (d *Line) SamplesFromMs(ms float64) float64 {
	return ms * d.sampleRate / 1000.0
}
