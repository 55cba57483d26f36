package dynacore

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/dynacore/pkg/framework/param"
	"github.com/justyntemme/dynacore/pkg/framework/process"
	"github.com/justyntemme/dynacore/pkg/framework/state"
)

const (
	testRate  = 48000.0
	testBlock = 256
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	p, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, p.Initialize(testRate, testBlock))
	require.NoError(t, p.SetActive(true))
	return p
}

func sineBlock(channels, n int, freq, amp float64) [][]float64 {
	block := make([][]float64, channels)
	for ch := range block {
		block[ch] = make([]float64, n)
		for i := range block[ch] {
			block[ch][i] = amp * math.Sin(2*math.Pi*freq*float64(i)/testRate+float64(ch))
		}
	}
	return block
}

func zeros(channels, n int) [][]float64 {
	block := make([][]float64, channels)
	for ch := range block {
		block[ch] = make([]float64, n)
	}
	return block
}

func rmsDB(block [][]float64) float64 {
	var sum float64
	count := 0
	for _, ch := range block {
		for _, s := range ch {
			sum += s * s
		}
		count += len(ch)
	}
	if sum == 0 {
		return 0
	}
	return 20 * math.Log10(math.Sqrt(sum/float64(count)))
}

func run(p *Processor, in, out [][]float64) {
	ctx := process.NewContext(len(in))
	ctx.SampleRate = testRate
	ctx.SetBuffers(in, out)
	p.ProcessAudio(ctx)
}

func set(t *testing.T, p *Processor, key string, plain float64) {
	t.Helper()
	prm := p.Parameters().ByKey(key)
	require.NotNil(t, prm, key)
	prm.SetPlainValue(plain)
}

func enableAllModules(t *testing.T, p *Processor) {
	t.Helper()
	for _, key := range []string{"comp_bypass", "trem_bypass", "pan_bypass", "pitch_bypass", "phaser_bypass"} {
		set(t, p, key, 0)
	}
	set(t, p, "comp_threshold", -40)
	set(t, p, "trem_rate", 5)
	set(t, p, "trem_depth", 80)
	set(t, p, "pan_rate", 2)
	set(t, p, "pan_depth", 80)
	set(t, p, "pitch_rate", 3)
	set(t, p, "pitch_depth", 60)
	set(t, p, "phaser_rate", 1)
	set(t, p, "phaser_depth", 100)
	set(t, p, "gain", 50)
	set(t, p, "intensity", 50)
}

func TestParameters(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	reg := p.Parameters()

	require.Equal(t, int32(numParams), reg.Count())
	for id := uint32(0); id < numParams; id++ {
		prm := reg.Get(id)
		require.NotNil(t, prm, "id %d", id)
		assert.NotEmpty(t, prm.Key, prm.Name)
	}
	assert.Len(t, reg.Keys(), int(numParams))

	assert.True(t, reg.Get(ParamBypass).IsBypass())
	assert.False(t, reg.Get(ParamBypass).Bool())
	for _, id := range []uint32{ParamCompBypass, ParamTremBypass, ParamPanBypass, ParamPitchBypass, ParamPhaserBypass} {
		assert.True(t, reg.Get(id).Bool(), reg.Get(id).Name)
	}

	// rate defaults below the range clamp to the minimum
	assert.InDelta(t, 0.1, reg.Get(ParamTremRate).GetPlainValue(), 1e-12)
	assert.InDelta(t, -24.0, reg.Get(ParamCompThreshold).GetPlainValue(), 1e-12)
	assert.InDelta(t, 100.0, reg.Get(ParamCompMix).GetPlainValue(), 1e-12)

	assert.True(t, reg.Get(ParamOutputMeter).IsReadOnly())
	assert.True(t, reg.Get(ParamGainReduction).IsReadOnly())
}

func TestProcessBeforeInitializePassesThrough(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	in := sineBlock(2, 64, 440, 0.5)
	out := zeros(2, 64)
	run(p, in, out)

	assert.Equal(t, in, out)
}

func TestBypassIsBitIdentical(t *testing.T) {
	p := newTestProcessor(t)
	enableAllModules(t, p)
	set(t, p, "output", 12)
	set(t, p, "bypass", 1)

	for block := 0; block < 4; block++ {
		in := sineBlock(2, testBlock, 220, 0.7)
		out := zeros(2, testBlock)
		run(p, in, out)

		assert.Equal(t, in, out)
		assert.InDelta(t, rmsDB(in), p.LevelDB(), 1e-9)
	}
	assert.Equal(t, 0.0, p.GainReductionDB())
}

func TestModulesBypassedAppliesOutputGain(t *testing.T) {
	p := newTestProcessor(t)
	set(t, p, "output", -6)
	g := math.Pow(10, -6.0/20.0)

	in := sineBlock(2, testBlock, 1000, 0.5)
	out := zeros(2, testBlock)
	run(p, in, out)

	for ch := range in {
		for i := range in[ch] {
			require.InDelta(t, in[ch][i]*g, out[ch][i], 1e-12)
		}
	}
	assert.InDelta(t, rmsDB(out), p.LevelDB(), 1e-9)
	assert.InDelta(t, rmsDB(in)-6, p.LevelDB(), 1e-9)
	assert.InDelta(t, p.LevelDB(), p.Parameters().Get(ParamOutputMeter).GetPlainValue(), 1e-9)
}

func TestContextNarrowerThanBlockAppliesGainToAllChannels(t *testing.T) {
	p := newTestProcessor(t)
	set(t, p, "output", -20)

	in := [][]float64{{1, 1, 1, 1}, {1, 1, 1, 1}}
	out := zeros(2, 4)
	ctx := process.NewContext(1)
	ctx.SetBuffers(in, out)
	p.ProcessAudio(ctx)

	for ch := range out {
		for i, s := range out[ch] {
			assert.InDelta(t, 0.1, s, 1e-12, "channel %d sample %d", ch, i)
		}
	}
	assert.InDelta(t, -20.0, p.LevelDB(), 1e-9)
}

func TestInPlaceProcessing(t *testing.T) {
	p := newTestProcessor(t)
	set(t, p, "output", 6)

	buf := sineBlock(2, testBlock, 1000, 0.25)
	want := rmsDB(buf) + 6
	run(p, buf, buf)

	assert.InDelta(t, want, p.LevelDB(), 1e-9)
}

func TestInputDrive(t *testing.T) {
	p := newTestProcessor(t)
	set(t, p, "gain", 100)
	g := math.Pow(10, MaxDriveDB/20.0)

	in := sineBlock(1, testBlock, 500, 0.1)
	out := zeros(1, testBlock)
	run(p, in, out)

	for i := range in[0] {
		require.InDelta(t, in[0][i]*g, out[0][i], 1e-12)
	}
}

func TestSilenceMetersZero(t *testing.T) {
	p := newTestProcessor(t)
	enableAllModules(t, p)

	run(p, zeros(2, testBlock), zeros(2, testBlock))

	assert.Equal(t, 0.0, p.LevelDB())
	assert.Equal(t, 0.0, p.PeakDB())
	assert.InDelta(t, 0.0, p.Parameters().Get(ParamOutputMeter).GetPlainValue(), 1e-9)
}

func TestMeterClampsToRange(t *testing.T) {
	p := newTestProcessor(t)

	in := sineBlock(2, testBlock, 1000, 1e-6)
	run(p, in, zeros(2, testBlock))

	assert.Less(t, p.LevelDB(), MeterMinDB)
	assert.Equal(t, MeterMinDB, p.Parameters().Get(ParamOutputMeter).GetPlainValue())
}

func TestCompressorGainReduction(t *testing.T) {
	p := newTestProcessor(t)
	set(t, p, "comp_bypass", 0)
	set(t, p, "comp_threshold", -40)
	set(t, p, "comp_ratio", 10)
	set(t, p, "comp_attack", 0.1)

	in := sineBlock(2, testBlock, 1000, 0.9)
	out := zeros(2, testBlock)
	run(p, in, out)

	assert.Greater(t, p.GainReductionDB(), 10.0)
	assert.Less(t, rmsDB(out), rmsDB(in))

	set(t, p, "comp_bypass", 1)
	run(p, in, out)
	assert.Equal(t, 0.0, p.GainReductionDB())
}

func TestModulesChangeSignal(t *testing.T) {
	p := newTestProcessor(t)
	enableAllModules(t, p)

	in := sineBlock(2, testBlock, 300, 0.3)
	out := zeros(2, testBlock)
	for i := 0; i < 8; i++ {
		run(p, in, out)
	}

	assert.NotEqual(t, in, out)
	for _, ch := range out {
		for _, s := range ch {
			require.False(t, math.IsNaN(s) || math.IsInf(s, 0))
		}
	}
	assert.Equal(t, int32(240), p.GetLatencySamples())
}

func TestLatencyZeroWhileBypassed(t *testing.T) {
	p := newTestProcessor(t)
	set(t, p, "pitch_bypass", 0)
	require.Equal(t, int32(240), p.GetLatencySamples())

	set(t, p, "bypass", 1)
	assert.Equal(t, int32(0), p.GetLatencySamples())

	set(t, p, "bypass", 0)
	set(t, p, "pitch_bypass", 1)
	assert.Equal(t, int32(0), p.GetLatencySamples())
}

func TestTailSamples(t *testing.T) {
	p := newTestProcessor(t)
	assert.Equal(t, int32(0), p.GetTailSamples(), "modules bypassed by default")

	set(t, p, "pitch_bypass", 0)
	assert.Equal(t, int32(384), p.GetTailSamples())

	set(t, p, "phaser_bypass", 0)
	assert.Equal(t, int32(384+960), p.GetTailSamples())

	set(t, p, "bypass", 1)
	assert.Equal(t, int32(0), p.GetTailSamples())
}

func TestMonoLayout(t *testing.T) {
	p := newTestProcessor(t)
	enableAllModules(t, p)
	require.True(t, p.SupportsChannels(1, 1))
	require.False(t, p.SupportsChannels(1, 2))

	in := sineBlock(1, testBlock, 440, 0.5)
	out := zeros(1, testBlock)
	run(p, in, out)

	assert.NotEqual(t, 0.0, p.LevelDB())
}

func TestDeactivateResetsMeter(t *testing.T) {
	p := newTestProcessor(t)

	run(p, sineBlock(2, testBlock, 440, 0.5), zeros(2, testBlock))
	require.NotEqual(t, 0.0, p.LevelDB())

	require.NoError(t, p.SetActive(false))
	assert.Equal(t, 0.0, p.LevelDB())
	assert.Equal(t, 0.0, p.PeakDB())
	assert.InDelta(t, 0.0, p.Parameters().Get(ParamOutputMeter).GetPlainValue(), 1e-9)
}

func TestApplyPreset(t *testing.T) {
	p := newTestProcessor(t)

	for _, name := range p.Bank().Names() {
		p.RevertToDefaults()
		before := snapshot(p.Parameters())

		require.NoError(t, p.ApplyPreset(name))
		assert.Equal(t, name, p.PresetName())
		assert.NotEqual(t, before, snapshot(p.Parameters()), name)
	}

	assert.ErrorContains(t, p.ApplyPreset("No Such Preset"), "Vocal Glue")

	p.RevertToDefaults()
	assert.Empty(t, p.PresetName())
	assert.True(t, p.Parameters().Get(ParamCompBypass).Bool())
}

func TestApplyPresetIgnoresPreviousPreset(t *testing.T) {
	fresh := newTestProcessor(t)
	require.NoError(t, fresh.ApplyPreset("Vocal Glue"))

	p := newTestProcessor(t)
	require.NoError(t, p.ApplyPreset("Vocal Shimmer"))
	require.NoError(t, p.ApplyPreset("Vocal Glue"))

	assert.Equal(t, snapshot(fresh.Parameters()), snapshot(p.Parameters()))
	assert.True(t, p.Parameters().Get(ParamPhaserBypass).Bool())
	assert.True(t, p.Parameters().Get(ParamPitchBypass).Bool())
}

func snapshot(reg *param.Registry) map[uint32]float64 {
	values := make(map[uint32]float64)
	for _, prm := range reg.All() {
		values[prm.ID] = prm.GetValue()
	}
	return values
}

func TestStateRoundTrip(t *testing.T) {
	src := newTestProcessor(t)
	require.NoError(t, src.ApplyPreset("Room Pump"))
	set(t, src, "trem_depth", 33)

	var buf bytes.Buffer
	require.NoError(t, src.SaveState(&buf))

	dst := newTestProcessor(t)
	require.NoError(t, dst.LoadState(bytes.NewReader(buf.Bytes())))

	assert.Equal(t, "Room Pump", dst.PresetName())
	for _, prm := range src.Parameters().All() {
		if prm.IsReadOnly() {
			continue
		}
		assert.Equal(t, prm.GetValue(), dst.Parameters().Get(prm.ID).GetValue(), prm.Name)
	}
}

func TestLoadStateErrors(t *testing.T) {
	p := newTestProcessor(t)

	err := p.LoadState(bytes.NewReader([]byte("NOTDYNA")))
	assert.ErrorIs(t, err, state.ErrInvalidFormat)

	var buf bytes.Buffer
	require.NoError(t, p.SaveState(&buf))
	truncated := buf.Bytes()[:buf.Len()-2]
	assert.Error(t, p.LoadState(bytes.NewReader(truncated)))
}

func TestProcessAudioDoesNotAllocate(t *testing.T) {
	p := newTestProcessor(t)
	enableAllModules(t, p)

	in := sineBlock(2, testBlock, 440, 0.5)
	out := zeros(2, testBlock)
	ctx := process.NewContext(2)
	ctx.SampleRate = testRate
	ctx.SetBuffers(in, out)

	allocs := testing.AllocsPerRun(50, func() {
		p.ProcessAudio(ctx)
	})
	assert.Zero(t, allocs)

	set(t, p, "bypass", 1)
	allocs = testing.AllocsPerRun(50, func() {
		p.ProcessAudio(ctx)
	})
	assert.Zero(t, allocs)
}

func BenchmarkProcessAudio(b *testing.B) {
	p, err := New(nil)
	require.NoError(b, err)
	require.NoError(b, p.Initialize(testRate, testBlock))

	for _, key := range []string{"comp_bypass", "trem_bypass", "pan_bypass", "pitch_bypass", "phaser_bypass"} {
		p.Parameters().ByKey(key).SetValue(0)
	}

	in := sineBlock(2, testBlock, 440, 0.5)
	out := zeros(2, testBlock)
	ctx := process.NewContext(2)
	ctx.SetBuffers(in, out)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.ProcessAudio(ctx)
	}
}
