package bus

import (
	"errors"
	"fmt"
)

// MaxChannels is the largest channel count a bus may carry
const MaxChannels = 32

// ErrInvalidBus is wrapped by every Validate failure
var ErrInvalidBus = errors.New("invalid bus configuration")

// Builder assembles a Configuration one bus at a time
type Builder struct {
	config *Configuration
}

func NewBuilder() *Builder {
	return &Builder{config: &Configuration{}}
}

func (b *Builder) add(direction Direction, name string, channels int32) *Builder {
	b.config.buses = append(b.config.buses, Info{
		Direction:    direction,
		ChannelCount: channels,
		Name:         name,
		IsActive:     true,
	})
	return b
}

// WithAudioInput adds an audio input bus
func (b *Builder) WithAudioInput(name string, channels int32) *Builder {
	return b.add(DirectionInput, name, channels)
}

// WithAudioOutput adds an audio output bus
func (b *Builder) WithAudioOutput(name string, channels int32) *Builder {
	return b.add(DirectionOutput, name, channels)
}

// WithStereoInput adds a stereo input bus
func (b *Builder) WithStereoInput(name string) *Builder {
	return b.WithAudioInput(name, 2)
}

// WithStereoOutput adds a stereo output bus
func (b *Builder) WithStereoOutput(name string) *Builder {
	return b.WithAudioOutput(name, 2)
}

// WithMonoInput adds a mono input bus
func (b *Builder) WithMonoInput(name string) *Builder {
	return b.WithAudioInput(name, 1)
}

// WithMonoOutput adds a mono output bus
func (b *Builder) WithMonoOutput(name string) *Builder {
	return b.WithAudioOutput(name, 1)
}

// Validate requires at least one output and 1..MaxChannels channels per bus
func (b *Builder) Validate() error {
	if b.config.GetBusCount(DirectionOutput) == 0 {
		return fmt.Errorf("%w: no output bus", ErrInvalidBus)
	}
	for _, info := range b.config.buses {
		if info.ChannelCount < 1 || info.ChannelCount > MaxChannels {
			return fmt.Errorf("%w: bus %q has %d channels", ErrInvalidBus, info.Name, info.ChannelCount)
		}
	}
	return nil
}

// Build returns the built configuration or an error
func (b *Builder) Build() (*Configuration, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b.config, nil
}

// MustBuild returns the built configuration or panics on error
func (b *Builder) MustBuild() *Configuration {
	config, err := b.Build()
	if err != nil {
		panic(err)
	}
	return config
}
