package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/justyntemme/dynacore/pkg/dsp/analysis"
	"github.com/justyntemme/dynacore/pkg/dynacore"
	"github.com/justyntemme/dynacore/pkg/framework/debug"
	"github.com/justyntemme/dynacore/pkg/framework/process"
)

const (
	profileSection = "process"
	profileSamples = 4096
	// warnings past this count are only tallied
	maxLoggedWarnings = 20
)

type renderOptions struct {
	blockSize int
	preset    string
	bypass    bool
	outputDB  *float64 // nil keeps the preset or default level
	sets      []string
	profile   bool
}

type renderStats struct {
	sampleRate  int
	channels    int
	bitDepth    int
	frames      int64
	preset      string
	warnings    int
	levels      analysis.Summary
	lastLevelDB float64
	lastPeakDB  float64
	profile     *debug.Measurement
}

// configure applies the preset, then bypass and output level, then the
// -set overrides, so later settings win
func configure(proc *dynacore.Processor, opts renderOptions) error {
	if opts.preset != "" {
		if err := proc.ApplyPreset(opts.preset); err != nil {
			return err
		}
	}

	reg := proc.Parameters()
	if opts.bypass {
		reg.Get(dynacore.ParamBypass).SetValue(1)
	}
	if opts.outputDB != nil {
		reg.Get(dynacore.ParamOutput).SetPlainValue(*opts.outputDB)
	}

	for _, s := range opts.sets {
		key, value, err := parseAssignment(s)
		if err != nil {
			return err
		}
		prm := reg.ByKey(key)
		if prm == nil {
			return fmt.Errorf("-set %s: unknown parameter (known: %s)", key, strings.Join(reg.Keys(), ", "))
		}
		if prm.IsReadOnly() {
			return fmt.Errorf("-set %s: parameter is read-only", key)
		}
		normalized, err := prm.ParseValue(value)
		if err != nil {
			return fmt.Errorf("-set %s: %w", key, err)
		}
		prm.SetValue(normalized)
	}
	return nil
}

func render(inputPath, outputPath string, opts renderOptions, logger *logrus.Logger) (stats *renderStats, err error) {
	log := debug.Component(logger, "render")

	// 1. Open and validate input
	input, err := openWAVInput(inputPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	log.WithFields(logrus.Fields{
		"sample_rate": input.rate,
		"channels":    input.channels,
		"bit_depth":   input.bitDepth,
	}).Info("input opened")

	// 2. Build and configure the processor
	proc, err := dynacore.New(logger)
	if err != nil {
		return nil, err
	}
	if !proc.SupportsChannels(input.channels, input.channels) {
		return nil, fmt.Errorf("%d-channel input not supported (layouts %s)", input.channels, proc.Layouts())
	}
	if err := configure(proc, opts); err != nil {
		return nil, err
	}
	if err := proc.Initialize(float64(input.rate), int32(opts.blockSize)); err != nil {
		return nil, err
	}
	if err := proc.SetActive(true); err != nil {
		return nil, err
	}
	defer func() { _ = proc.SetActive(false) }()

	// 3. Create output writer
	output, err := createWAVOutput(outputPath, input.rate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// runs after Close, so a failed render leaves no truncated file
	defer removeOnError(outputPath, &err)
	// the encoder writes the final header sizes on Close
	defer func() {
		if closeErr := output.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to finalize output: %w", closeErr)
		}
	}()

	// 4. Preallocate block buffers
	buffers := newRenderBuffers(input, opts.blockSize)
	ctx := process.NewContext(input.channels)
	ctx.SampleRate = float64(input.rate)

	history := analysis.NewHistory(int(input.totalFrames/int64(opts.blockSize)) + 1)
	var profiler *debug.Profiler
	if opts.profile {
		profiler = debug.NewProfiler(profileSamples)
	}

	stats = &renderStats{
		sampleRate: input.rate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
		preset:     proc.PresetName(),
	}

	// 5. Main processing loop
	for block := 0; ; block++ {
		n, err := input.decoder.PCMBuffer(buffers.intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		frames := n / input.channels
		if frames == 0 {
			break
		}

		in, out := buffers.views(frames)
		deinterleaveInto(buffers.intBuffer.Data[:frames*input.channels], in, buffers.invMaxVal)
		ctx.SetBuffers(in, out)

		if profiler != nil {
			stop := profiler.Start(profileSection)
			proc.ProcessAudio(ctx)
			stop()
		} else {
			proc.ProcessAudio(ctx)
		}
		history.Add(proc.LevelDB())

		if report := debug.CheckBlock(out); !report.OK() || report.Clipped > 0 {
			stats.warnings++
			if stats.warnings <= maxLoggedWarnings {
				log.WithFields(logrus.Fields{
					"block":  block,
					"frame":  stats.frames,
					"issues": strings.Join(report.Issues(), "; "),
				}).Warn("output block out of range")
			}
		}

		samples := interleaveInto(out, buffers.outputIntBuf, buffers.maxVal)
		if err := output.WriteSamples(samples); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}
		stats.frames += int64(frames)

		// restore full capacity for the next read
		buffers.intBuffer.Data = buffers.intBuffer.Data[:cap(buffers.intBuffer.Data)]
	}

	stats.levels = history.Summary()
	stats.lastLevelDB = proc.LevelDB()
	stats.lastPeakDB = proc.PeakDB()
	if profiler != nil {
		if m, ok := profiler.Measurement(profileSection); ok {
			stats.profile = &m
		}
	}
	if stats.warnings > maxLoggedWarnings {
		log.WithField("suppressed", stats.warnings-maxLoggedWarnings).Warn("further block warnings suppressed")
	}

	log.WithFields(logrus.Fields{
		"frames":  stats.frames,
		"blocks":  stats.levels.Blocks,
		"mean_db": stats.levels.Mean,
	}).Info("render finished")
	return stats, nil
}
