package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, Summary{}, s)
	assert.Equal(t, "no blocks", s.String())
}

func TestSummarizeSingleReading(t *testing.T) {
	s := Summarize([]float64{-12})

	assert.Equal(t, 1, s.Blocks)
	assert.Equal(t, -12.0, s.Mean)
	assert.Equal(t, -12.0, s.Min)
	assert.Equal(t, -12.0, s.Max)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, -12.0, s.P95)
}

func TestSummarizeSeries(t *testing.T) {
	readings := []float64{-6, -30, -18, -12, -24}
	s := Summarize(readings)

	assert.Equal(t, 5, s.Blocks)
	assert.InDelta(t, -18.0, s.Mean, 1e-9)
	assert.Equal(t, -30.0, s.Min)
	assert.Equal(t, -6.0, s.Max)
	// sample standard deviation of a step-6 series of five
	assert.InDelta(t, 6*math.Sqrt(2.5), s.StdDev, 1e-9)
	assert.Equal(t, -6.0, s.P95)

	// input left unsorted
	assert.Equal(t, []float64{-6, -30, -18, -12, -24}, readings)
}

func TestSummarizeP95(t *testing.T) {
	readings := make([]float64, 100)
	for i := range readings {
		readings[i] = float64(-i)
	}

	s := Summarize(readings)
	assert.Equal(t, -5.0, s.P95)
}

func TestHistory(t *testing.T) {
	h := NewHistory(4)
	require.Equal(t, 0, h.Len())

	h.Add(-20)
	h.Add(-10)
	h.Add(0)

	require.Equal(t, 3, h.Len())
	assert.Equal(t, []float64{-20, -10, 0}, h.Readings())

	s := h.Summary()
	assert.Equal(t, 3, s.Blocks)
	assert.InDelta(t, -10.0, s.Mean, 1e-9)
	assert.Contains(t, s.String(), "blocks=3")

	h.Reset()
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, Summary{}, h.Summary())
}
