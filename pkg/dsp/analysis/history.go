package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a series of meter readings in dB
type Summary struct {
	Blocks int     `json:"blocks"`
	Mean   float64 `json:"mean_db"`
	Min    float64 `json:"min_db"`
	Max    float64 `json:"max_db"`
	StdDev float64 `json:"stddev_db"`
	P95    float64 `json:"p95_db"`
}

// String formats the summary for a terminal report
func (s Summary) String() string {
	if s.Blocks == 0 {
		return "no blocks"
	}
	return fmt.Sprintf("blocks=%d mean=%.2f dB min=%.2f dB max=%.2f dB stddev=%.2f dB p95=%.2f dB",
		s.Blocks, s.Mean, s.Min, s.Max, s.StdDev, s.P95)
}

// Summarize reduces readings to a Summary. The input is not modified.
func Summarize(readings []float64) Summary {
	n := len(readings)
	if n == 0 {
		return Summary{}
	}

	s := Summary{
		Blocks: n,
		Mean:   stat.Mean(readings, nil),
		Min:    floats.Min(readings),
		Max:    floats.Max(readings),
	}
	if n > 1 {
		s.StdDev = stat.StdDev(readings, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, readings)
	sort.Float64s(sorted)
	s.P95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)

	return s
}

// History records per-block meter readings
type History struct {
	readings []float64
}

// NewHistory creates a history with room for capacity readings
func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{readings: make([]float64, 0, capacity)}
}

// Add appends a reading
func (h *History) Add(levelDB float64) {
	h.readings = append(h.readings, levelDB)
}

// Len returns the number of recorded readings
func (h *History) Len() int {
	return len(h.readings)
}

// Readings returns the recorded readings. The slice is shared with the
// history and is valid until the next Add or Reset.
func (h *History) Readings() []float64 {
	return h.readings
}

// Summary summarizes the recorded readings
func (h *History) Summary() Summary {
	return Summarize(h.readings)
}

// Reset discards all readings
func (h *History) Reset() {
	h.readings = h.readings[:0]
}
