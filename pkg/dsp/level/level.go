// Package level implements the output stage of the plugin: the bypass
// decision, the output gain and the RMS level meter that feeds the display.
package level

import (
	"math"
	"sync/atomic"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// SilenceDB is reported for a block whose output is exactly zero.
// log10(0) is never evaluated, so the display never sees -Inf.
const SilenceDB = 0.0

// Processor applies bypass and output gain to a block and measures the
// loudness of the result.
//
// Process runs on the audio thread. LevelDB and PeakDB may be called from
// any goroutine at any time; the readings are single atomic words and a
// reader may observe the previous block's value.
type Processor struct {
	levelDB atomic.Uint64
	peakDB  atomic.Uint64
}

// NewProcessor creates a processor with both readings at 0 dB.
func NewProcessor() *Processor {
	p := &Processor{}
	p.Reset()
	return p
}

// Process writes the gain-adjusted (or passed-through) input into output
// and returns the RMS level of output in dB.
//
// output may alias input for in-place processing. Only the overlapping
// shape is processed: min(len(input), len(output)) channels and, per
// channel, the shorter of the two slices. Process does not allocate.
func (p *Processor) Process(input, output [][]float64, bypass bool, outputGainDB float64) float64 {
	gain := math.Pow(10.0, outputGainDB/20.0)

	numChannels := len(input)
	if len(output) < numChannels {
		numChannels = len(output)
	}

	var sumSquares, peak float64
	count := 0

	for ch := 0; ch < numChannels; ch++ {
		n := len(input[ch])
		if len(output[ch]) < n {
			n = len(output[ch])
		}
		if n == 0 {
			continue
		}

		src := input[ch][:n]
		dst := output[ch][:n]

		if bypass {
			copy(dst, src)
		} else {
			vecmath.ScaleBlock(dst, src, gain)
		}

		sumSquares += vecmath.DotProduct(dst, dst)
		if m := vecmath.MaxAbs(dst); m > peak {
			peak = m
		}
		count += n
	}

	if count == 0 {
		return p.LevelDB()
	}

	levelDB := SilenceDB
	if sumSquares > 0 {
		levelDB = 20.0 * math.Log10(math.Sqrt(sumSquares/float64(count)))
	}
	peakDB := SilenceDB
	if peak > 0 {
		peakDB = 20.0 * math.Log10(peak)
	}

	p.levelDB.Store(math.Float64bits(levelDB))
	p.peakDB.Store(math.Float64bits(peakDB))

	return levelDB
}

// LevelDB returns the RMS level of the most recent block.
func (p *Processor) LevelDB() float64 {
	return math.Float64frombits(p.levelDB.Load())
}

// PeakDB returns the sample peak of the most recent block.
func (p *Processor) PeakDB() float64 {
	return math.Float64frombits(p.peakDB.Load())
}

// Reset returns both readings to 0 dB.
func (p *Processor) Reset() {
	p.levelDB.Store(math.Float64bits(SilenceDB))
	p.peakDB.Store(math.Float64bits(SilenceDB))
}
