// Package process provides the per-block audio processing context.
package process

// Context carries one block's buffers. Buffers are channel-major and
// owned by the caller; the context never allocates after NewContext.
type Context struct {
	Input      [][]float64
	Output     [][]float64
	SampleRate float64

	// active output view, rebuilt per block within preallocated capacity
	active [][]float64
}

// NewContext preallocates the channel view for maxChannels channels.
func NewContext(maxChannels int) *Context {
	return &Context{active: make([][]float64, 0, maxChannels)}
}

// SetBuffers installs the block's buffers. Output may alias Input. The
// channel view grows here when the block is wider than NewContext allowed
// for, so Channels always covers every processed channel.
func (c *Context) SetBuffers(input, output [][]float64) {
	c.Input = input
	c.Output = output
	if n := c.NumChannels(); n > cap(c.active) {
		c.active = make([][]float64, 0, n)
	}
}

// NumSamples returns the number of frames common to every connected
// input and output channel
func (c *Context) NumSamples() int {
	n := -1
	for _, chans := range [2][][]float64{c.Input, c.Output} {
		for _, ch := range chans[:min(len(chans), c.NumChannels())] {
			if n < 0 || len(ch) < n {
				n = len(ch)
			}
		}
	}
	return max(n, 0)
}

func (c *Context) NumInputChannels() int {
	return len(c.Input)
}

func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// NumChannels is the number of channels processed: the smaller of the
// input and output counts.
func (c *Context) NumChannels() int {
	return min(c.NumInputChannels(), c.NumOutputChannels())
}

// Channels returns the processed output channels, each sliced to
// NumSamples. The view is valid until the next call.
func (c *Context) Channels() [][]float64 {
	n := c.NumSamples()
	c.active = c.active[:0]
	for ch := 0; ch < c.NumChannels(); ch++ {
		c.active = append(c.active, c.Output[ch][:n])
	}
	return c.active
}

// PassThrough copies each processed input channel onto its output.
// Aliased channels are left as they are.
func (c *Context) PassThrough() {
	for ch := 0; ch < c.NumChannels(); ch++ {
		copy(c.Output[ch], c.Input[ch])
	}
}
