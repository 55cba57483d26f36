// Package dsp provides chain building for in-place block processors.
package dsp

import (
	"fmt"
)

// Processor processes a channel-major block in place.
type Processor interface {
	// Process processes audio in-place
	Process(channels [][]float64)

	// Reset resets the processor state
	Reset()
}

// ProcessorFunc allows using a function as a Processor.
type ProcessorFunc func([][]float64)

func (f ProcessorFunc) Process(channels [][]float64) {
	f(channels)
}

func (f ProcessorFunc) Reset() {
	// No-op for function processors
}

// Stage is a named, individually bypassable processor in a chain.
type Stage struct {
	name      string
	processor Processor
	bypass    bool
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return s.name
}

// SetBypass sets the bypass state of the stage.
func (s *Stage) SetBypass(bypass bool) {
	s.bypass = bypass
}

// IsBypassed reports whether the stage is skipped.
func (s *Stage) IsBypassed() bool {
	return s.bypass
}

// Chain runs stages in order. A bypassed stage is skipped, so a chain
// with every stage bypassed leaves the block untouched.
type Chain struct {
	stages []*Stage
	name   string
	bypass bool
}

// NewChain creates a new DSP chain.
func NewChain(name string) *Chain {
	return &Chain{
		name:   name,
		stages: make([]*Stage, 0),
	}
}

// Name returns the chain name.
func (c *Chain) Name() string {
	return c.name
}

// Add appends a named processor and returns its stage.
func (c *Chain) Add(name string, processor Processor) *Stage {
	s := &Stage{name: name, processor: processor}
	c.stages = append(c.stages, s)
	return s
}

// AddFunc appends a processing function and returns its stage.
func (c *Chain) AddFunc(name string, process func([][]float64)) *Stage {
	return c.Add(name, ProcessorFunc(process))
}

// Stage returns the stage with the given name, or nil.
func (c *Chain) Stage(name string) *Stage {
	for _, s := range c.stages {
		if s.name == name {
			return s
		}
	}
	return nil
}

// Process processes audio through the chain.
func (c *Chain) Process(channels [][]float64) {
	if c.bypass {
		return
	}

	for _, s := range c.stages {
		if !s.bypass {
			s.processor.Process(channels)
		}
	}
}

// Reset resets all processors in the chain, bypassed or not.
func (c *Chain) Reset() {
	for _, s := range c.stages {
		s.processor.Reset()
	}
}

// SetBypass sets the bypass state of the chain.
func (c *Chain) SetBypass(bypass bool) {
	c.bypass = bypass
}

// IsEmpty returns true if the chain has no stages.
func (c *Chain) IsEmpty() bool {
	return len(c.stages) == 0
}

// Count returns the number of stages in the chain.
func (c *Chain) Count() int {
	return len(c.stages)
}

// Builder provides a fluent API for building DSP chains.
type Builder struct {
	chain  *Chain
	errors []error
}

// NewBuilder creates a new chain builder.
func NewBuilder(name string) *Builder {
	return &Builder{
		chain:  NewChain(name),
		errors: make([]error, 0),
	}
}

// WithProcessor adds a named processor to the chain.
func (b *Builder) WithProcessor(name string, processor Processor) *Builder {
	if processor == nil {
		b.errors = append(b.errors, fmt.Errorf("processor %q cannot be nil", name))
		return b
	}
	if b.chain.Stage(name) != nil {
		b.errors = append(b.errors, fmt.Errorf("duplicate stage %q", name))
		return b
	}
	b.chain.Add(name, processor)
	return b
}

// WithFunc adds a processing function to the chain.
func (b *Builder) WithFunc(name string, process func([][]float64)) *Builder {
	if process == nil {
		b.errors = append(b.errors, fmt.Errorf("process function %q cannot be nil", name))
		return b
	}
	return b.WithProcessor(name, ProcessorFunc(process))
}

// Build builds the chain and returns any errors.
func (b *Builder) Build() (*Chain, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("chain build errors: %v", b.errors)
	}
	if b.chain.IsEmpty() {
		return nil, fmt.Errorf("chain is empty")
	}
	return b.chain, nil
}
