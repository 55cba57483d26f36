package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM = 1

	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0
)

// setFlags collects repeated -set key=value flags.
type setFlags []string

func (s *setFlags) String() string {
	return strings.Join(*s, ",")
}

func (s *setFlags) Set(value string) error {
	if _, _, err := parseAssignment(value); err != nil {
		return err
	}
	*s = append(*s, value)
	return nil
}

// parseAssignment splits key=value. The value keeps any unit suffix for
// the parameter's own parser.
func parseAssignment(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if !ok || key == "" || value == "" {
		return "", "", fmt.Errorf("invalid assignment %q, want key=value", s)
	}
	return key, value, nil
}

// getMaxValue returns the full-scale sample value for a PCM bit depth.
func getMaxValue(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth %d (want 16, 24 or 32)", bitDepth)
	}
}

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates an integer PCM WAV file.
func openWAVInput(path string) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		_ = inputFile.Close()
		return nil, fmt.Errorf("%s: WAV format %d is not integer PCM", path, decoder.WavAudioFormat)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)
	if _, err := getMaxValue(bitDepth); err != nil {
		_ = inputFile.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if format.NumChannels < 1 {
		_ = inputFile.Close()
		return nil, fmt.Errorf("%s: no audio channels", path)
	}

	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}

	return &wavInputInfo{
		file:        inputFile,
		decoder:     decoder,
		rate:        format.SampleRate,
		channels:    format.NumChannels,
		bitDepth:    bitDepth,
		totalFrames: int64(duration.Seconds() * float64(format.SampleRate)),
		format:      format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

// createWAVOutput creates the output file and an integer PCM encoder.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	if _, err := getMaxValue(bitDepth); err != nil {
		return nil, err
	}
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples writes interleaved samples.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	w.buf.Data = samples
	return w.encoder.Write(w.buf)
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// removeOnError deletes a partly written output file when *errp is set
// by the time the render returns.
func removeOnError(path string, errp *error) {
	if *errp != nil {
		_ = os.Remove(path)
	}
}

// renderBuffers holds all preallocated buffers for one block.
type renderBuffers struct {
	intBuffer    *audio.IntBuffer
	input        [][]float64
	output       [][]float64
	inView       [][]float64
	outView      [][]float64
	outputIntBuf []int
	invMaxVal    float64
	maxVal       float64
}

func newRenderBuffers(input *wavInputInfo, blockSize int) *renderBuffers {
	channels := input.channels
	maxVal, _ := getMaxValue(input.bitDepth)

	b := &renderBuffers{
		intBuffer: &audio.IntBuffer{
			Data:   make([]int, blockSize*channels),
			Format: input.format,
		},
		input:        make([][]float64, channels),
		output:       make([][]float64, channels),
		inView:       make([][]float64, channels),
		outView:      make([][]float64, channels),
		outputIntBuf: make([]int, blockSize*channels),
		invMaxVal:    1.0 / maxVal,
		maxVal:       maxVal,
	}
	for ch := range channels {
		b.input[ch] = make([]float64, blockSize)
		b.output[ch] = make([]float64, blockSize)
	}
	return b
}

// views returns the input and output buffers cut to frames.
func (b *renderBuffers) views(frames int) (in, out [][]float64) {
	for ch := range b.input {
		b.inView[ch] = b.input[ch][:frames]
		b.outView[ch] = b.output[ch][:frames]
	}
	return b.inView, b.outView
}

// deinterleaveInto converts interleaved int samples into per-channel
// buffers scaled to [-1, 1].
func deinterleaveInto(data []int, channels [][]float64, invMaxVal float64) {
	numChannels := len(channels)
	if numChannels == 0 {
		return
	}
	frames := len(data) / numChannels
	for i := range frames {
		for ch := range numChannels {
			channels[ch][i] = float64(data[i*numChannels+ch]) * invMaxVal
		}
	}
}

// interleaveInto converts per-channel buffers back to clamped, rounded
// int samples in dst and returns the filled part of dst.
func interleaveInto(channels [][]float64, dst []int, maxVal float64) []int {
	if len(channels) == 0 {
		return dst[:0]
	}
	numChannels := len(channels)
	frames := len(channels[0])
	for i := range frames {
		for ch := range numChannels {
			sample := channels[ch][i]
			switch {
			case math.IsNaN(sample):
				sample = 0
			case sample > 1.0:
				sample = 1.0
			case sample < -1.0:
				sample = -1.0
			}
			dst[i*numChannels+ch] = int(math.Round(sample * maxVal))
		}
	}
	return dst[:frames*numChannels]
}
