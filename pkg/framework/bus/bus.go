// Package bus describes audio bus layouts and the channel I/O
// configurations a plugin accepts.
package bus

// Direction represents the bus direction
type Direction int32

const (
	// DirectionInput represents input bus
	DirectionInput Direction = 0
	// DirectionOutput represents output bus
	DirectionOutput Direction = 1
)

// Info contains bus configuration
type Info struct {
	Direction    Direction
	ChannelCount int32
	Name         string
	IsActive     bool
}

// Configuration is one accepted layout: a main input and a main output bus
type Configuration struct {
	buses []Info
}

// NewStereoConfiguration creates a standard stereo I/O configuration
func NewStereoConfiguration() *Configuration {
	return NewBuilder().WithStereoInput("Stereo In").WithStereoOutput("Stereo Out").MustBuild()
}

// NewMonoConfiguration creates a mono I/O configuration
func NewMonoConfiguration() *Configuration {
	return NewBuilder().WithMonoInput("Mono In").WithMonoOutput("Mono Out").MustBuild()
}

// GetBusCount returns the number of buses in a direction
func (c *Configuration) GetBusCount(direction Direction) int32 {
	count := int32(0)
	for _, bus := range c.buses {
		if bus.Direction == direction {
			count++
		}
	}
	return count
}

// GetBusInfo returns information about a specific bus
func (c *Configuration) GetBusInfo(direction Direction, index int32) *Info {
	busIndex := int32(0)
	for i := range c.buses {
		if c.buses[i].Direction == direction {
			if busIndex == index {
				return &c.buses[i]
			}
			busIndex++
		}
	}
	return nil
}

// Channels returns the total active channel count in a direction
func (c *Configuration) Channels(direction Direction) int {
	n := 0
	for _, bus := range c.buses {
		if bus.Direction == direction && bus.IsActive {
			n += int(bus.ChannelCount)
		}
	}
	return n
}
