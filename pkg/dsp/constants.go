// Package dsp holds the DynaCore signal processing blocks. The constants
// here are the ranges the processors and the plugin parameters share.
package dsp

// Compressor ranges
const (
	CompMinThresholdDB = -60.0
	CompMaxThresholdDB = 0.0
	CompMinRatio       = 1.0
	CompMaxRatio       = 20.0
	CompMinMakeupDB    = -24.0
	CompMaxMakeupDB    = 24.0
	CompMinAttackMs    = 0.1
	CompMaxAttackMs    = 100.0
	CompMinReleaseMs   = 5.0
	CompMaxReleaseMs   = 1000.0
)

// Modulation rate ranges in Hz
const (
	ModMinRate   = 0.1
	ModMaxRate   = 20.0
	PitchMaxRate = 10.0
)

// Output level range in dB
const (
	OutputMinDB = -24.0
	OutputMaxDB = 24.0
)

// Channel counts
const (
	Mono   = 1
	Stereo = 2
)

// Block sizes in frames
const (
	MinBufferSize     = 32
	DefaultBufferSize = 512
	MaxBufferSize     = 8192
)
