// Package plugin provides plugin metadata and a base processor with
// lifecycle callbacks.
package plugin

import (
	"errors"
	"fmt"

	"github.com/justyntemme/dynacore/pkg/framework/bus"
	"github.com/justyntemme/dynacore/pkg/framework/param"
	"github.com/justyntemme/dynacore/pkg/framework/process"
)

// ErrNotInitialized is returned by operations that need Initialize first
var ErrNotInitialized = errors.New("processor not initialized")

// AudioProcessor is the interface plugins implement for audio processing
type AudioProcessor interface {
	Initialize(sampleRate float64, maxBlockSize int32) error
	SetActive(active bool) error
	Parameters() *param.Registry
	// ProcessAudio processes one block - zero allocations allowed!
	ProcessAudio(ctx *process.Context)
}

// BaseProcessor provides common functionality for audio processors
type BaseProcessor struct {
	params       *param.Registry
	layouts      bus.Layouts
	sampleRate   float64
	maxBlockSize int32
	initialized  bool
	active       bool

	// Optional callbacks for customization
	onInitialize func(sampleRate float64, maxBlockSize int32) error
	onSetActive  func(active bool) error
	onReset      func()
}

// NewBaseProcessor creates a new base processor accepting the given
// layouts. Nil means stereo.
func NewBaseProcessor(layouts bus.Layouts) *BaseProcessor {
	if len(layouts) == 0 {
		layouts = bus.Layouts{bus.NewStereoConfiguration()}
	}

	return &BaseProcessor{
		params:  param.NewRegistry(),
		layouts: layouts,
	}
}

// Initialize validates the setup and runs the initialize callback
func (b *BaseProcessor) Initialize(sampleRate float64, maxBlockSize int32) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sample rate %v must be positive", sampleRate)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("max block size %d must be positive", maxBlockSize)
	}

	b.sampleRate = sampleRate
	b.maxBlockSize = maxBlockSize

	if b.onInitialize != nil {
		if err := b.onInitialize(sampleRate, maxBlockSize); err != nil {
			return err
		}
	}

	b.initialized = true
	return nil
}

// SetActive runs the reset callback on deactivation, then the
// activation callback
func (b *BaseProcessor) SetActive(active bool) error {
	if !b.initialized {
		return ErrNotInitialized
	}

	if !active && b.onReset != nil {
		b.onReset()
	}

	if b.onSetActive != nil {
		if err := b.onSetActive(active); err != nil {
			return err
		}
	}

	b.active = active
	return nil
}

// IsActive reports the last successful SetActive state
func (b *BaseProcessor) IsActive() bool {
	return b.active
}

// IsInitialized reports whether Initialize has succeeded
func (b *BaseProcessor) IsInitialized() bool {
	return b.initialized
}

// Layouts returns the accepted channel layouts
func (b *BaseProcessor) Layouts() bus.Layouts {
	return b.layouts
}

// SupportsChannels reports whether in inputs and out outputs is an
// accepted layout
func (b *BaseProcessor) SupportsChannels(in, out int) bool {
	return b.layouts.Supports(in, out)
}

// GetLatencySamples returns the processing latency - default none
func (b *BaseProcessor) GetLatencySamples() int32 {
	return 0
}

// GetTailSamples returns the tail length - default none
func (b *BaseProcessor) GetTailSamples() int32 {
	return 0
}

// SampleRate returns the current sample rate
func (b *BaseProcessor) SampleRate() float64 {
	return b.sampleRate
}

// MaxBlockSize returns the largest block Initialize was given
func (b *BaseProcessor) MaxBlockSize() int32 {
	return b.maxBlockSize
}

// Parameters returns the parameter registry for adding parameters
func (b *BaseProcessor) Parameters() *param.Registry {
	return b.params
}

// OnInitialize sets a callback for initialization
func (b *BaseProcessor) OnInitialize(fn func(sampleRate float64, maxBlockSize int32) error) {
	b.onInitialize = fn
}

// OnSetActive sets a callback for activation/deactivation
func (b *BaseProcessor) OnSetActive(fn func(active bool) error) {
	b.onSetActive = fn
}

// OnReset sets a callback for when the processor should reset its state
func (b *BaseProcessor) OnReset(fn func()) {
	b.onReset = fn
}
