package dynacore

import (
	"github.com/justyntemme/dynacore/pkg/dsp"
	"github.com/justyntemme/dynacore/pkg/framework/param"
)

// Parameter IDs, in registration order
const (
	ParamGain uint32 = iota
	ParamCompBypass
	ParamBypass
	ParamTremBypass
	ParamTremRate
	ParamTremDepth
	ParamPanBypass
	ParamPanRate
	ParamPanDepth
	ParamPitchBypass
	ParamPitchRate
	ParamPitchDepth
	ParamPhaserBypass
	ParamPhaserRate
	ParamPhaserDepth
	ParamCompMix
	ParamCompThreshold
	ParamCompRatio
	ParamCompGain
	ParamCompAttack
	ParamCompRelease
	ParamIntensity
	ParamOutput
	ParamOutputMeter
	ParamGainReduction

	numParams
)

// Meter ranges
const (
	MeterMinDB         = -96.0
	MeterMaxDB         = 24.0
	GainReductionMaxDB = 60.0
)

func newParameters() []*param.Parameter {
	return []*param.Parameter{
		param.PercentParameter(ParamGain, "Gain", 0).Key("gain").Build(),
		param.SwitchParameter(ParamCompBypass, "Comp Bypass", true).ShortName("Comp Byp").Key("comp_bypass").Build(),
		param.SwitchParameter(ParamBypass, "Bypass", false).Key("bypass").Bypass().Build(),

		param.SwitchParameter(ParamTremBypass, "Trem Bypass", true).ShortName("Trem Byp").Key("trem_bypass").Build(),
		param.RateParameter(ParamTremRate, "Trem Rate", dsp.ModMinRate, dsp.ModMaxRate, 0).Key("trem_rate").Build(),
		param.PercentParameter(ParamTremDepth, "Trem Depth", 0).Key("trem_depth").Build(),

		param.SwitchParameter(ParamPanBypass, "Pan Bypass", true).ShortName("Pan Byp").Key("pan_bypass").Build(),
		param.RateParameter(ParamPanRate, "Pan Rate", dsp.ModMinRate, dsp.ModMaxRate, 0).Key("pan_rate").Build(),
		param.PercentParameter(ParamPanDepth, "Pan Depth", 0).Key("pan_depth").Build(),

		param.SwitchParameter(ParamPitchBypass, "Pitch Bypass", true).ShortName("Pitch Byp").Key("pitch_bypass").Build(),
		param.RateParameter(ParamPitchRate, "Pitch Rate", dsp.ModMinRate, dsp.PitchMaxRate, 0).Key("pitch_rate").Build(),
		param.PercentParameter(ParamPitchDepth, "Pitch Depth", 0).Key("pitch_depth").Build(),

		param.SwitchParameter(ParamPhaserBypass, "Phaser Bypass", true).ShortName("Phsr Byp").Key("phaser_bypass").Build(),
		param.RateParameter(ParamPhaserRate, "Phaser Rate", dsp.ModMinRate, dsp.ModMaxRate, 0).Key("phaser_rate").Build(),
		param.PercentParameter(ParamPhaserDepth, "Phaser Depth", 0).Key("phaser_depth").Build(),

		param.PercentParameter(ParamCompMix, "Comp Mix", 100).Key("comp_mix").Build(),
		param.DecibelParameter(ParamCompThreshold, "Comp Threshold", dsp.CompMinThresholdDB, dsp.CompMaxThresholdDB, -24).ShortName("Thresh").Key("comp_threshold").Build(),
		param.RatioParameter(ParamCompRatio, "Comp Ratio", dsp.CompMinRatio, dsp.CompMaxRatio, 4).ShortName("Ratio").Key("comp_ratio").Build(),
		param.DecibelParameter(ParamCompGain, "Comp Gain", dsp.CompMinMakeupDB, dsp.CompMaxMakeupDB, 0).ShortName("Makeup").Key("comp_gain").Build(),
		param.TimeParameter(ParamCompAttack, "Comp Attack", dsp.CompMinAttackMs, dsp.CompMaxAttackMs, 10).ShortName("Attack").Key("comp_attack").Build(),
		param.TimeParameter(ParamCompRelease, "Comp Release", dsp.CompMinReleaseMs, dsp.CompMaxReleaseMs, 100).ShortName("Release").Key("comp_release").Build(),

		param.PercentParameter(ParamIntensity, "Master Intensity", 0).ShortName("Intensity").Key("intensity").Build(),
		param.DecibelParameter(ParamOutput, "Output Level", dsp.OutputMinDB, dsp.OutputMaxDB, 0).ShortName("Output").Key("output").Build(),

		param.MeterParameter(ParamOutputMeter, "Output Meter", MeterMinDB, MeterMaxDB).ShortName("Meter").Key("meter").Build(),
		param.MeterParameter(ParamGainReduction, "Gain Reduction", 0, GainReductionMaxDB).ShortName("GR").Key("gain_reduction").Build(),
	}
}
