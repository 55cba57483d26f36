package bus

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrChannelIO reports a malformed channel I/O string
var ErrChannelIO = errors.New("invalid channel I/O")

// Layouts is the set of configurations a plugin accepts
type Layouts []*Configuration

// ParseChannelIO parses a space separated list of "in-out" channel
// counts, such as "1-1 2-2".
func ParseChannelIO(s string) (Layouts, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrChannelIO)
	}

	layouts := make(Layouts, 0, len(fields))
	for _, f := range fields {
		in, out, ok := strings.Cut(f, "-")
		if !ok {
			return nil, fmt.Errorf("%w: %q has no '-'", ErrChannelIO, f)
		}
		nIn, err := strconv.ParseInt(in, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrChannelIO, f, err)
		}
		nOut, err := strconv.ParseInt(out, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrChannelIO, f, err)
		}

		b := NewBuilder()
		if nIn > 0 {
			b.WithAudioInput(fmt.Sprintf("In %d", nIn), int32(nIn))
		}
		b.WithAudioOutput(fmt.Sprintf("Out %d", nOut), int32(nOut))
		config, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrChannelIO, f, err)
		}
		layouts = append(layouts, config)
	}
	return layouts, nil
}

// Supports reports whether some layout has exactly in inputs and out
// outputs
func (l Layouts) Supports(in, out int) bool {
	for _, c := range l {
		if c.Channels(DirectionInput) == in && c.Channels(DirectionOutput) == out {
			return true
		}
	}
	return false
}

// MaxChannels returns the widest input or output across all layouts
func (l Layouts) MaxChannels() int {
	n := 0
	for _, c := range l {
		n = max(n, c.Channels(DirectionInput), c.Channels(DirectionOutput))
	}
	return n
}

// String formats the layouts back into "in-out" form
func (l Layouts) String() string {
	parts := make([]string, len(l))
	for i, c := range l {
		parts[i] = fmt.Sprintf("%d-%d", c.Channels(DirectionInput), c.Channels(DirectionOutput))
	}
	return strings.Join(parts, " ")
}
