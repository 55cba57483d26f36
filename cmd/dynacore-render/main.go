// Command dynacore-render runs a WAV file through the DynaCore processor
// block by block, the way a host would, and reports the output meter.
//
// Usage:
//
//	dynacore-render input.wav output.wav
//	dynacore-render -preset "Drum Bus Punch" drums.wav punched.wav
//	dynacore-render -set trem_bypass=on -set trem_rate=6 -set "trem_depth=80%" in.wav out.wav
//	dynacore-render -bypass -gain -6 in.wav out.wav    # raw input, meter only
//	dynacore-render -list                               # factory presets
//	dynacore-render -list -v                            # with values and parameter table
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/justyntemme/dynacore/pkg/dsp"
	"github.com/justyntemme/dynacore/pkg/dynacore"
	"github.com/justyntemme/dynacore/pkg/framework/debug"
	"github.com/justyntemme/dynacore/pkg/framework/preset"
)

const minRequiredArgs = 2

func main() {
	if err := run(); err != nil {
		logrus.Fatal(err)
	}
}

func run() error {
	var sets setFlags
	blockSize := flag.Int("block", dsp.DefaultBufferSize, "Processing block size in frames")
	presetName := flag.String("preset", "", "Factory preset to apply before the -set overrides")
	bypass := flag.Bool("bypass", false, "Master bypass: pass the input through and meter it")
	gainDB := flag.Float64("gain", 0, "Output level in dB (-24 to 24)")
	flag.Var(&sets, "set", "Parameter override as key=value, repeatable")
	verbose := flag.Bool("v", false, "Debug logging; with -list, also print preset values")
	jsonLogs := flag.Bool("json", false, "JSON log output")
	profile := flag.Bool("profile", false, "Report per-block processing time and DSP load")
	list := flag.Bool("list", false, "List the factory presets and exit")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	logger, err := debug.NewLogger(debug.LogConfig{Level: level, JSON: *jsonLogs})
	if err != nil {
		return err
	}

	if *list {
		return listPresets(*verbose)
	}

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return errors.New("insufficient arguments")
	}
	if *blockSize < dsp.MinBufferSize || *blockSize > dsp.MaxBufferSize {
		return fmt.Errorf("block size %d out of range %d-%d", *blockSize, dsp.MinBufferSize, dsp.MaxBufferSize)
	}

	opts := renderOptions{
		blockSize: *blockSize,
		preset:    *presetName,
		bypass:    *bypass,
		sets:      sets,
		profile:   *profile,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "gain" {
			opts.outputDB = gainDB
		}
	})

	inputPath, outputPath := args[0], args[1]
	logger.WithFields(logrus.Fields{
		"input":  inputPath,
		"output": outputPath,
		"block":  opts.blockSize,
		"preset": opts.preset,
		"bypass": opts.bypass,
	}).Debug("render starting")

	start := time.Now()
	stats, err := render(inputPath, outputPath, opts, logger)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Rendered %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz, %d channels, %d-bit, %d frames\n",
		stats.sampleRate, stats.channels, stats.bitDepth, stats.frames)
	if stats.preset != "" {
		fmt.Printf("  Preset: %s\n", stats.preset)
	}
	fmt.Printf("  Output meter: %s\n", stats.levels)
	fmt.Printf("  Last block: level %.2f dB, peak %.2f dB\n", stats.lastLevelDB, stats.lastPeakDB)
	if stats.warnings > 0 {
		fmt.Printf("  Blocks with warnings: %d\n", stats.warnings)
	}
	if stats.profile != nil {
		m := stats.profile
		fmt.Printf("  Process: avg %v, p99 %v, max %v, DSP load %.2f%%\n",
			m.Average(), m.Percentile(99), m.Max, m.Load(float64(stats.sampleRate), opts.blockSize))
	}
	if elapsed > 0 {
		fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
			elapsed.Seconds(), float64(stats.frames)/float64(stats.sampleRate)/elapsed.Seconds())
	}
	return nil
}

// listPresets prints the factory bank by group. With verbose set it also
// prints each preset's values and the parameter table.
func listPresets(verbose bool) error {
	proc, err := dynacore.New(debug.Discard())
	if err != nil {
		return err
	}
	reg := proc.Parameters()

	fmt.Printf("%s %s factory presets\n", dynacore.Info.Name, dynacore.Info.Version)
	for _, g := range preset.Groups {
		fmt.Printf("%s:\n", g)
		for _, p := range proc.Bank().Group(g) {
			fmt.Printf("  %s\n", p.Name)
			if !verbose {
				continue
			}
			for _, key := range p.Keys() {
				prm := reg.ByKey(key)
				fmt.Printf("      %-16s %s\n", key, prm.FormatValue(prm.Normalize(p.Values[key])))
			}
		}
	}
	if !verbose {
		return nil
	}

	fmt.Println("parameters:")
	for _, prm := range reg.All() {
		note := ""
		if !prm.CanAutomate() {
			note = " (read-only)"
		}
		fmt.Printf("  %-16s %s .. %s, default %s%s\n", prm.Key,
			prm.FormatValue(0), prm.FormatValue(1), prm.FormatValue(prm.DefaultValue), note)
	}
	return nil
}
