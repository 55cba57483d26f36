package dynacore

import (
	"github.com/justyntemme/dynacore/pkg/dsp/dynamics"
	"github.com/justyntemme/dynacore/pkg/dsp/gain"
	"github.com/justyntemme/dynacore/pkg/dsp/modulation"
	"github.com/justyntemme/dynacore/pkg/dsp/pan"
	"github.com/justyntemme/dynacore/pkg/framework/dsp"
	"github.com/justyntemme/dynacore/pkg/framework/param"
)

// Stage names, in processing order
const (
	StageCompressor = "compressor"
	StageTremolo    = "tremolo"
	StagePan        = "pan"
	StagePitch      = "pitch"
	StagePhaser     = "phaser"
)

const (
	// MaxDriveDB is the input drive at 100% Gain
	MaxDriveDB = 12.0
	// IntensitySmoothingMs is the master intensity glide time
	IntensitySmoothingMs = 20.0
	// CompressorKneeDB is the fixed soft knee width
	CompressorKneeDB = 2.0
)

// settings is one block's worth of chain parameters, in plain units
type settings struct {
	driveDB float64

	compBypass    bool
	compMix       float64 // 0-1
	compThreshold float64 // dB
	compRatio     float64
	compGain      float64 // dB
	compAttack    float64 // ms
	compRelease   float64 // ms

	tremBypass bool
	tremRate   float64
	tremDepth  float64 // 0-1

	panBypass bool
	panRate   float64
	panDepth  float64

	pitchBypass bool
	pitchRate   float64
	pitchDepth  float64

	phaserBypass bool
	phaserRate   float64
	phaserDepth  float64

	intensity float64 // 0-1
}

// linkedCompressor runs the compressor across all channels with one
// detector
type linkedCompressor struct {
	*dynamics.Compressor
}

func (c linkedCompressor) Process(channels [][]float64) {
	c.ProcessLinked(channels)
}

// effects is the DynaCore module chain:
// drive, compressor, tremolo, pan motion, pitch drift, phaser
type effects struct {
	chain *dsp.Chain

	comp   *dynamics.Compressor
	trem   *modulation.Tremolo
	pan    *pan.AutoPan
	pitch  *modulation.PitchDrift
	phaser *modulation.Phaser

	compStage   *dsp.Stage
	tremStage   *dsp.Stage
	panStage    *dsp.Stage
	pitchStage  *dsp.Stage
	phaserStage *dsp.Stage

	// depth multiplier, 1 to 2
	intensity *param.Smoother
	drive     float64
}

func newEffects(sampleRate float64, channels int) (*effects, error) {
	e := &effects{
		comp:      dynamics.NewCompressor(sampleRate),
		trem:      modulation.NewTremolo(sampleRate),
		pan:       pan.NewAutoPan(sampleRate),
		pitch:     modulation.NewPitchDrift(sampleRate, channels),
		phaser:    modulation.NewPhaser(sampleRate, channels),
		intensity: param.NewTimedSmoother(param.LinearSmoothing, sampleRate, IntensitySmoothingMs),
		drive:     1.0,
	}
	e.comp.SetKnee(dynamics.KneeSoft, CompressorKneeDB)
	e.intensity.Reset(1.0)

	chain, err := dsp.NewBuilder("dynacore").
		WithProcessor(StageCompressor, linkedCompressor{e.comp}).
		WithProcessor(StageTremolo, e.trem).
		WithProcessor(StagePan, e.pan).
		WithProcessor(StagePitch, e.pitch).
		WithProcessor(StagePhaser, e.phaser).
		Build()
	if err != nil {
		return nil, err
	}
	e.chain = chain
	e.compStage = chain.Stage(StageCompressor)
	e.tremStage = chain.Stage(StageTremolo)
	e.panStage = chain.Stage(StagePan)
	e.pitchStage = chain.Stage(StagePitch)
	e.phaserStage = chain.Stage(StagePhaser)
	return e, nil
}

// update applies a block's settings. n is the block length, used to
// advance the intensity glide.
func (e *effects) update(s *settings, n int) {
	e.drive = gain.DbToLinear(s.driveDB)

	e.intensity.SetTarget(1.0 + s.intensity)
	scale := e.intensity.Skip(n)

	e.compStage.SetBypass(s.compBypass)
	e.comp.SetThreshold(s.compThreshold)
	e.comp.SetRatio(s.compRatio)
	e.comp.SetMakeupGain(s.compGain)
	e.comp.SetAttack(s.compAttack / 1000.0)
	e.comp.SetRelease(s.compRelease / 1000.0)
	e.comp.SetMix(s.compMix)

	e.tremStage.SetBypass(s.tremBypass)
	e.trem.SetRate(s.tremRate)
	e.trem.SetDepth(scaleDepth(s.tremDepth, scale))

	e.panStage.SetBypass(s.panBypass)
	e.pan.SetRate(s.panRate)
	e.pan.SetDepth(scaleDepth(s.panDepth, scale))

	e.pitchStage.SetBypass(s.pitchBypass)
	e.pitch.SetRate(s.pitchRate)
	e.pitch.SetDepth(scaleDepth(s.pitchDepth, scale))

	e.phaserStage.SetBypass(s.phaserBypass)
	e.phaser.SetRate(s.phaserRate)
	e.phaser.SetDepth(scaleDepth(s.phaserDepth, scale))
}

// process runs drive and the chain in place
func (e *effects) process(channels [][]float64) {
	if e.drive != 1.0 {
		for _, ch := range channels {
			gain.ApplyBuffer(ch, e.drive)
		}
	}
	e.chain.Process(channels)
}

// gainReduction returns the compressor's current reduction in dB, or 0
// when it is bypassed
func (e *effects) gainReduction() float64 {
	if e.compStage.IsBypassed() {
		return 0
	}
	return e.comp.GainReduction()
}

func (e *effects) reset() {
	e.chain.Reset()
	e.intensity.Reset(e.intensity.Current())
}

func scaleDepth(depth, scale float64) float64 {
	return min(depth*scale, 1.0)
}
