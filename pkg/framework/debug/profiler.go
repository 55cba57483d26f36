package debug

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Profiler records timings for named sections.
type Profiler struct {
	mu           sync.Mutex
	measurements map[string]*Measurement
	order        []string
	maxSamples   int
}

// Measurement holds timing statistics for a profiled section.
type Measurement struct {
	Name    string
	Count   uint64
	Total   time.Duration
	Min     time.Duration
	Max     time.Duration
	samples []time.Duration // ring of recent timings
	next    int
}

// NewProfiler creates a profiler keeping maxSamples recent timings per
// section for percentiles.
func NewProfiler(maxSamples int) *Profiler {
	if maxSamples < 1 {
		maxSamples = 1
	}
	return &Profiler{
		measurements: make(map[string]*Measurement),
		maxSamples:   maxSamples,
	}
}

// Start begins timing a named section. Call the returned func to stop.
func (p *Profiler) Start(name string) func() {
	start := time.Now()
	return func() {
		p.Record(name, time.Since(start))
	}
}

// Time measures the execution time of a function.
func (p *Profiler) Time(name string, fn func()) {
	stop := p.Start(name)
	defer stop()
	fn()
}

// Record stores one timing.
func (p *Profiler) Record(name string, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, exists := p.measurements[name]
	if !exists {
		m = &Measurement{
			Name:    name,
			Min:     elapsed,
			Max:     elapsed,
			samples: make([]time.Duration, 0, p.maxSamples),
		}
		p.measurements[name] = m
		p.order = append(p.order, name)
	}

	m.Count++
	m.Total += elapsed
	m.Min = min(m.Min, elapsed)
	m.Max = max(m.Max, elapsed)

	if len(m.samples) < p.maxSamples {
		m.samples = append(m.samples, elapsed)
	} else {
		m.samples[m.next] = elapsed
	}
	m.next = (m.next + 1) % p.maxSamples
}

// Measurement returns a copy of the named measurement.
func (p *Profiler) Measurement(name string) (Measurement, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, exists := p.measurements[name]
	if !exists {
		return Measurement{}, false
	}
	c := *m
	c.samples = append([]time.Duration(nil), m.samples...)
	return c, true
}

// Reset clears all measurements.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.measurements = make(map[string]*Measurement)
	p.order = nil
}

// Report formats every measurement in first-seen order.
func (p *Profiler) Report() string {
	p.mu.Lock()
	names := append([]string(nil), p.order...)
	p.mu.Unlock()

	if len(names) == 0 {
		return "No measurements recorded"
	}

	var sb strings.Builder
	for _, name := range names {
		m, _ := p.Measurement(name)
		fmt.Fprintf(&sb, "%s: count=%d avg=%v min=%v max=%v p99=%v\n",
			name, m.Count, m.Average(), m.Min, m.Max, m.Percentile(99))
	}
	return sb.String()
}

// Average returns the mean time.
func (m Measurement) Average() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.Total / time.Duration(m.Count)
}

// Percentile returns the p-th percentile (0-100) of recent timings.
func (m Measurement) Percentile(p float64) time.Duration {
	if len(m.samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), m.samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	p = max(0, min(100, p))
	index := int(float64(len(sorted)-1) * p / 100.0)
	return sorted[index]
}

// Load returns the average processing time as a percentage of the real
// time a block of blockSize frames represents at sampleRate.
func (m Measurement) Load(sampleRate float64, blockSize int) float64 {
	if sampleRate <= 0 || blockSize <= 0 {
		return 0
	}
	budget := time.Duration(float64(blockSize) / sampleRate * float64(time.Second))
	if budget <= 0 {
		return 0
	}
	return float64(m.Average()) / float64(budget) * 100.0
}
