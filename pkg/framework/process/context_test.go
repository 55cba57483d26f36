package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextShape(t *testing.T) {
	ctx := NewContext(2)
	in := [][]float64{make([]float64, 8), make([]float64, 6)}
	out := [][]float64{make([]float64, 8), make([]float64, 8), make([]float64, 8)}
	ctx.SetBuffers(in, out)

	assert.Equal(t, 2, ctx.NumInputChannels())
	assert.Equal(t, 3, ctx.NumOutputChannels())
	assert.Equal(t, 2, ctx.NumChannels())
	assert.Equal(t, 6, ctx.NumSamples())

	chans := ctx.Channels()
	require.Len(t, chans, 2)
	assert.Len(t, chans[0], 6)
	assert.Len(t, chans[1], 6)

	ctx.SetBuffers(nil, out)
	assert.Equal(t, 0, ctx.NumSamples())
	assert.Empty(t, ctx.Channels())
}

func TestContextChannelsGrowPastCapacity(t *testing.T) {
	ctx := NewContext(1)
	buf := [][]float64{make([]float64, 4), make([]float64, 4), make([]float64, 4)}
	ctx.SetBuffers(buf, buf)

	chans := ctx.Channels()
	require.Len(t, chans, 3)
	assert.Len(t, chans[2], 4)
}

func TestContextPassThrough(t *testing.T) {
	ctx := NewContext(2)
	in := [][]float64{{1, 2, 3}, {4, 5, 6}}
	out := [][]float64{make([]float64, 3), make([]float64, 3)}
	ctx.SetBuffers(in, out)

	ctx.PassThrough()
	assert.Equal(t, in, out)

	// in place is a no-op
	ctx.SetBuffers(in, in)
	ctx.PassThrough()
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, in)
}

func TestContextChannelsNoAlloc(t *testing.T) {
	ctx := NewContext(2)
	buf := [][]float64{make([]float64, 64), make([]float64, 64)}
	ctx.SetBuffers(buf, buf)

	allocs := testing.AllocsPerRun(100, func() {
		_ = ctx.Channels()
	})
	assert.Zero(t, allocs)
}
