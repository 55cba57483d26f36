package delay

import (
	"math"
	"testing"
)

func TestLineIntegerDelay(t *testing.T) {
	d := New(0.01, 1000) // 10 samples

	var out []float64
	for i := 1; i <= 8; i++ {
		out = append(out, d.Process(float64(i), 3))
	}

	// delay 1 is the sample just written, so delay 3 lags by two
	want := []float64{0, 0, 1, 2, 3, 4, 5, 6}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("sample %d: got %f, want %f", i, out[i], want[i])
		}
	}
}

func TestLineFractionalDelay(t *testing.T) {
	d := New(0.01, 1000)
	d.Write(0)
	d.Write(1)

	got := d.Read(1.5)
	if math.Abs(got-0.5) > 1e-12 {
		t.Errorf("fractional read: got %f, want 0.5", got)
	}
}

func TestLineClampsDelay(t *testing.T) {
	d := New(0.004, 1000) // 4 samples
	for i := 0; i < 20; i++ {
		d.Write(float64(i))
	}

	if got := d.Read(0); got != 19 {
		t.Errorf("delay below 1 should read newest sample: got %f", got)
	}
	if got, want := d.Read(100), d.Read(d.MaxDelay()); got != want {
		t.Errorf("delay above max should clamp: got %f, want %f", got, want)
	}
}

func TestLineWrapAround(t *testing.T) {
	d := New(0.003, 1000)
	for i := 0; i < 100; i++ {
		out := d.Process(float64(i), 2)
		if i >= 1 && out != float64(i-1) {
			t.Fatalf("sample %d: got %f, want %f", i, out, float64(i-1))
		}
	}
}

func TestLineReset(t *testing.T) {
	d := New(0.01, 1000)
	d.Write(1)
	d.Write(1)

	d.Reset()

	for delay := 1.0; delay <= d.MaxDelay(); delay++ {
		if got := d.Read(delay); got != 0 {
			t.Errorf("delay %f not cleared: %f", delay, got)
		}
	}
}

func TestSamplesFromMs(t *testing.T) {
	d := New(0.1, 48000)
	if got := d.SamplesFromMs(5); got != 240 {
		t.Errorf("SamplesFromMs(5) = %f, want 240", got)
	}
}
