package dynacore

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/justyntemme/dynacore/pkg/dsp/level"
	"github.com/justyntemme/dynacore/pkg/framework/debug"
	"github.com/justyntemme/dynacore/pkg/framework/param"
	"github.com/justyntemme/dynacore/pkg/framework/plugin"
	"github.com/justyntemme/dynacore/pkg/framework/preset"
	"github.com/justyntemme/dynacore/pkg/framework/process"
)

// maxPresetName bounds the preset name read back from state
const maxPresetName = 1024

// Processor is the DynaCore audio processor.
//
// ProcessAudio runs on the audio thread and neither allocates, locks nor
// logs. LevelDB, PeakDB and GainReductionDB may be read from any goroutine.
type Processor struct {
	*plugin.Base

	log   *logrus.Entry
	level *level.Processor
	fx    *effects
	bank  *preset.Bank

	// cached so the audio path never takes the registry lock
	params   [numParams]*param.Parameter
	settings settings

	mu         sync.Mutex
	presetName string
}

// New creates a DynaCore processor. A nil logger discards all logs.
func New(logger logrus.FieldLogger) (*Processor, error) {
	if logger == nil {
		logger = debug.Discard()
	}

	base, err := plugin.NewBase(Info)
	if err != nil {
		return nil, err
	}
	if err := base.Parameters().Add(newParameters()...); err != nil {
		return nil, fmt.Errorf("%s: register parameters: %w", Info.Name, err)
	}

	bank, err := preset.Factory()
	if err != nil {
		return nil, err
	}
	if err := bank.Validate(base.Parameters()); err != nil {
		return nil, err
	}

	p := &Processor{
		Base:  base,
		log:   debug.Component(logger, "dynacore"),
		level: level.NewProcessor(),
		bank:  bank,
	}
	for id := range p.params {
		p.params[id] = base.Parameters().Get(uint32(id))
	}

	base.OnInitialize(p.initialize)
	base.OnSetActive(p.setActive)
	base.OnReset(p.reset)
	base.State().SetCustomState(p.savePresetName, p.loadPresetName)

	return p, nil
}

func (p *Processor) initialize(sampleRate float64, maxBlockSize int32) error {
	channels := p.Layouts().MaxChannels()
	fx, err := newEffects(sampleRate, channels)
	if err != nil {
		return fmt.Errorf("%s: build chain: %w", Info.Name, err)
	}
	p.fx = fx
	p.level.Reset()

	p.log.WithFields(logrus.Fields{
		"sample_rate":    sampleRate,
		"max_block_size": maxBlockSize,
		"channels":       channels,
		"uid":            Info.UIDString(),
	}).Info("initialized")
	return nil
}

func (p *Processor) setActive(active bool) error {
	p.log.WithField("active", active).Debug("activation changed")
	return nil
}

func (p *Processor) reset() {
	if p.fx != nil {
		p.fx.reset()
	}
	p.level.Reset()
	p.params[ParamOutputMeter].ResetToDefault()
	p.params[ParamGainReduction].ResetToDefault()
}

// ProcessAudio processes one block
func (p *Processor) ProcessAudio(ctx *process.Context) {
	if p.fx == nil {
		ctx.PassThrough()
		return
	}

	bypass := p.params[ParamBypass].Bool()
	outputDB := p.params[ParamOutput].GetPlainValue()

	var levelDB float64
	if bypass {
		levelDB = p.level.Process(ctx.Input, ctx.Output, true, outputDB)
		p.params[ParamGainReduction].SetPlainValue(0)
	} else {
		ctx.PassThrough()
		channels := ctx.Channels()

		p.readSettings(&p.settings)
		p.fx.update(&p.settings, ctx.NumSamples())
		p.fx.process(channels)

		levelDB = p.level.Process(channels, channels, false, outputDB)
		p.params[ParamGainReduction].SetPlainValue(p.fx.gainReduction())
	}

	// SetPlainValue clamps into the meter range
	p.params[ParamOutputMeter].SetPlainValue(levelDB)
}

func (p *Processor) readSettings(s *settings) {
	plain := func(id uint32) float64 { return p.params[id].GetPlainValue() }
	on := func(id uint32) bool { return p.params[id].Bool() }

	s.driveDB = MaxDriveDB * plain(ParamGain) / 100.0

	s.compBypass = on(ParamCompBypass)
	s.compMix = plain(ParamCompMix) / 100.0
	s.compThreshold = plain(ParamCompThreshold)
	s.compRatio = plain(ParamCompRatio)
	s.compGain = plain(ParamCompGain)
	s.compAttack = plain(ParamCompAttack)
	s.compRelease = plain(ParamCompRelease)

	s.tremBypass = on(ParamTremBypass)
	s.tremRate = plain(ParamTremRate)
	s.tremDepth = plain(ParamTremDepth) / 100.0

	s.panBypass = on(ParamPanBypass)
	s.panRate = plain(ParamPanRate)
	s.panDepth = plain(ParamPanDepth) / 100.0

	s.pitchBypass = on(ParamPitchBypass)
	s.pitchRate = plain(ParamPitchRate)
	s.pitchDepth = plain(ParamPitchDepth) / 100.0

	s.phaserBypass = on(ParamPhaserBypass)
	s.phaserRate = plain(ParamPhaserRate)
	s.phaserDepth = plain(ParamPhaserDepth) / 100.0

	s.intensity = plain(ParamIntensity) / 100.0
}

// LevelDB returns the output RMS level of the latest block
func (p *Processor) LevelDB() float64 {
	return p.level.LevelDB()
}

// PeakDB returns the output sample peak of the latest block
func (p *Processor) PeakDB() float64 {
	return p.level.PeakDB()
}

// GainReductionDB returns the compressor gain reduction published by the
// latest block
func (p *Processor) GainReductionDB() float64 {
	return p.params[ParamGainReduction].GetPlainValue()
}

// GetLatencySamples reports the pitch drift delay while it is enabled.
// Master bypass outputs the undelayed input, so it reports none.
func (p *Processor) GetLatencySamples() int32 {
	if p.fx == nil || p.params[ParamBypass].Bool() || p.params[ParamPitchBypass].Bool() {
		return 0
	}
	return int32(p.fx.pitch.Latency())
}

// GetTailSamples reports how long the enabled delay and feedback stages
// keep sounding after the input stops
func (p *Processor) GetTailSamples() int32 {
	if p.fx == nil || p.params[ParamBypass].Bool() {
		return 0
	}
	var tail float64
	if !p.params[ParamPitchBypass].Bool() {
		tail += p.fx.pitch.Tail()
	}
	if !p.params[ParamPhaserBypass].Bool() {
		tail += p.fx.phaser.Tail()
	}
	return int32(math.Ceil(tail))
}

// Bank returns the factory preset bank
func (p *Processor) Bank() *preset.Bank {
	return p.bank
}

// PresetName returns the name of the last applied or loaded preset, or
// "" after a revert to defaults
func (p *Processor) PresetName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.presetName
}

func (p *Processor) setPresetName(name string) {
	p.mu.Lock()
	p.presetName = name
	p.mu.Unlock()
}

// ApplyPreset reverts to defaults and sets parameters from the named
// factory preset
func (p *Processor) ApplyPreset(name string) error {
	pr, ok := p.bank.Find(name)
	if !ok {
		return fmt.Errorf("%s: preset %q not found (known: %s)", Info.Name, name, strings.Join(p.bank.Names(), ", "))
	}
	if err := pr.Recall(p.Parameters()); err != nil {
		return fmt.Errorf("%s: %w", Info.Name, err)
	}
	p.setPresetName(pr.Name)

	p.log.WithFields(logrus.Fields{
		"preset": pr.Name,
		"group":  pr.Group,
		"values": len(pr.Values),
	}).Info("preset applied")
	return nil
}

// RevertToDefaults resets every writable parameter and clears the preset
// name
func (p *Processor) RevertToDefaults() {
	preset.Defaults(p.Parameters())
	p.setPresetName("")
	p.log.Info("reverted to defaults")
}

// SaveState writes parameter values and the preset name
func (p *Processor) SaveState(w io.Writer) error {
	if err := p.Base.SaveState(w); err != nil {
		p.log.WithError(err).Error("save state failed")
		return err
	}
	p.log.WithField("preset", p.PresetName()).Debug("state saved")
	return nil
}

// LoadState restores parameter values and the preset name
func (p *Processor) LoadState(r io.Reader) error {
	if err := p.Base.LoadState(r); err != nil {
		p.log.WithError(err).Error("load state failed")
		return err
	}
	p.log.WithField("preset", p.PresetName()).Debug("state loaded")
	return nil
}

func (p *Processor) savePresetName(w io.Writer) error {
	name := p.PresetName()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(name))); err != nil {
		return fmt.Errorf("write preset name: %w", err)
	}
	if _, err := io.WriteString(w, name); err != nil {
		return fmt.Errorf("write preset name: %w", err)
	}
	return nil
}

func (p *Processor) loadPresetName(r io.Reader) error {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("read preset name: %w", err)
	}
	if n > maxPresetName {
		return fmt.Errorf("preset name length %d exceeds %d", n, maxPresetName)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("read preset name: %w", err)
	}
	p.setPresetName(string(buf))
	return nil
}

var _ plugin.AudioProcessor = (*Processor)(nil)
