package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProcessor is a simple test processor that multiplies by a value.
type TestProcessor struct {
	multiplier float64
	processed  bool
	resets     int
}

func (t *TestProcessor) Process(channels [][]float64) {
	for _, ch := range channels {
		for i := range ch {
			ch[i] *= t.multiplier
		}
	}
	t.processed = true
}

func (t *TestProcessor) Reset() {
	t.processed = false
	t.resets++
}

func block() [][]float64 {
	return [][]float64{{1, 2, 3, 4}, {-1, -2, -3, -4}}
}

func TestChain(t *testing.T) {
	t.Run("BasicChain", func(t *testing.T) {
		chain := NewChain("test")
		chain.Add("double", &TestProcessor{multiplier: 2.0})
		chain.Add("half", &TestProcessor{multiplier: 0.5})

		buf := block()
		chain.Process(buf)

		assert.Equal(t, block(), buf)
		assert.Equal(t, 2, chain.Count())
	})

	t.Run("OrderMatters", func(t *testing.T) {
		chain := NewChain("order")
		chain.AddFunc("offset", func(channels [][]float64) {
			for _, ch := range channels {
				for i := range ch {
					ch[i] += 1
				}
			}
		})
		chain.Add("double", &TestProcessor{multiplier: 2.0})

		buf := [][]float64{{1}}
		chain.Process(buf)

		assert.Equal(t, 4.0, buf[0][0])
	})

	t.Run("StageBypass", func(t *testing.T) {
		chain := NewChain("bypass")
		p := &TestProcessor{multiplier: 3.0}
		stage := chain.Add("triple", p)
		stage.SetBypass(true)

		buf := block()
		chain.Process(buf)

		assert.Equal(t, block(), buf)
		assert.False(t, p.processed)
		assert.True(t, stage.IsBypassed())
	})

	t.Run("ChainBypass", func(t *testing.T) {
		chain := NewChain("bypass")
		p := &TestProcessor{multiplier: 3.0}
		chain.Add("triple", p)
		chain.SetBypass(true)

		buf := block()
		chain.Process(buf)

		assert.Equal(t, block(), buf)
		assert.False(t, p.processed)
	})

	t.Run("ResetIncludesBypassed", func(t *testing.T) {
		chain := NewChain("reset")
		p1 := &TestProcessor{multiplier: 1}
		p2 := &TestProcessor{multiplier: 1}
		chain.Add("a", p1)
		chain.Add("b", p2).SetBypass(true)

		chain.Reset()

		assert.Equal(t, 1, p1.resets)
		assert.Equal(t, 1, p2.resets)
	})

	t.Run("StageLookup", func(t *testing.T) {
		chain := NewChain("lookup")
		chain.Add("a", &TestProcessor{multiplier: 1})

		require.NotNil(t, chain.Stage("a"))
		assert.Equal(t, "a", chain.Stage("a").Name())
		assert.Nil(t, chain.Stage("missing"))
	})
}

func TestBuilder(t *testing.T) {
	t.Run("ValidChain", func(t *testing.T) {
		chain, err := NewBuilder("built").
			WithProcessor("gain", &TestProcessor{multiplier: 2}).
			WithFunc("noop", func([][]float64) {}).
			Build()

		require.NoError(t, err)
		assert.Equal(t, "built", chain.Name())
		assert.Equal(t, 2, chain.Count())
	})

	t.Run("EmptyChain", func(t *testing.T) {
		_, err := NewBuilder("empty").Build()
		assert.Error(t, err)
	})

	t.Run("NilProcessor", func(t *testing.T) {
		_, err := NewBuilder("nil").WithProcessor("x", nil).Build()
		assert.Error(t, err)

		_, err = NewBuilder("nil").WithFunc("x", nil).Build()
		assert.Error(t, err)
	})

	t.Run("DuplicateStage", func(t *testing.T) {
		_, err := NewBuilder("dup").
			WithProcessor("x", &TestProcessor{multiplier: 1}).
			WithProcessor("x", &TestProcessor{multiplier: 1}).
			Build()
		assert.ErrorContains(t, err, "duplicate")
	})
}
