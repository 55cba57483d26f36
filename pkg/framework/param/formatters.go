package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MinDB is the level shown as -inf
const MinDB = -96.0

// unit maps a text suffix to a multiplier into the parameter's plain unit.
// Longer suffixes that end in a shorter one must come first.
type unit struct {
	suffix string
	scale  float64
}

var (
	frequencyUnits = []unit{{"kHz", 1000}, {"khz", 1000}, {"Hz", 1}, {"hz", 1}}
	timeUnits      = []unit{{"µs", 0.001}, {"us", 0.001}, {"ms", 1}, {"s", 1000}}
	decibelUnits   = []unit{{"dB", 1}, {"db", 1}}
	percentUnits   = []unit{{"%", 1}}
	ratioUnits     = []unit{{":1", 1}}
)

// parseWithUnits strips the first matching suffix and scales the number.
// A bare number is taken as the plain unit.
func parseWithUnits(str string, units []unit) (float64, error) {
	str = strings.TrimSpace(str)
	scale := 1.0
	for _, u := range units {
		if strings.HasSuffix(str, u.suffix) {
			str = strings.TrimSpace(strings.TrimSuffix(str, u.suffix))
			scale = u.scale
			break
		}
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, err
	}
	return v * scale, nil
}

func isInfinity(str string) bool {
	return strings.Contains(str, "∞") || strings.Contains(strings.ToLower(str), "inf")
}

// FrequencyFormatter shows Hz below 1 kHz and kHz above.
func FrequencyFormatter(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.2f kHz", hz/1000)
	}
	return fmt.Sprintf("%.1f Hz", hz)
}

// FrequencyParser returns Hz.
func FrequencyParser(str string) (float64, error) {
	return parseWithUnits(str, frequencyUnits)
}

// DecibelFormatter renders MinDB and below as -∞.
func DecibelFormatter(db float64) string {
	if db <= MinDB || math.IsInf(db, -1) {
		return "-∞ dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

func DecibelParser(str string) (float64, error) {
	if isInfinity(str) {
		return MinDB, nil
	}
	return parseWithUnits(str, decibelUnits)
}

func PercentFormatter(value float64) string {
	return fmt.Sprintf("%.0f%%", value)
}

func PercentParser(str string) (float64, error) {
	return parseWithUnits(str, percentUnits)
}

// TimeFormatter takes milliseconds and picks µs, ms or s.
func TimeFormatter(ms float64) string {
	switch {
	case ms < 1:
		return fmt.Sprintf("%.2f µs", ms*1000)
	case ms < 1000:
		return fmt.Sprintf("%.1f ms", ms)
	default:
		return fmt.Sprintf("%.2f s", ms/1000)
	}
}

// TimeParser returns milliseconds.
func TimeParser(str string) (float64, error) {
	return parseWithUnits(str, timeUnits)
}

// RatioFormatter shows 100:1 and above as ∞:1.
func RatioFormatter(value float64) string {
	if value >= 100 {
		return "∞:1"
	}
	return fmt.Sprintf("%.1f:1", value)
}

func RatioParser(str string) (float64, error) {
	if isInfinity(str) {
		return 100, nil
	}
	return parseWithUnits(str, ratioUnits)
}

func OnOffFormatter(value float64) string {
	if value >= 0.5 {
		return "On"
	}
	return "Off"
}

func OnOffParser(str string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "on", "yes", "true", "1":
		return 1, nil
	case "off", "no", "false", "0":
		return 0, nil
	}
	return 0, fmt.Errorf("expected on or off, got %q", str)
}
