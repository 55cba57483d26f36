package param

// Shorthand constructors for the parameter kinds the plugins use. Each
// returns a Builder so callers can still set a key or short name.

func withUnit(b *Builder, min, max, def float64, unit string, format func(float64) string, parse func(string) (float64, error)) *Builder {
	return b.Range(min, max).Default(def).Unit(unit).Formatter(format, parse)
}

// PercentParameter is 0..100 %.
func PercentParameter(id uint32, name string, defaultPct float64) *Builder {
	return withUnit(New(id, name), 0, 100, defaultPct, "%", PercentFormatter, PercentParser)
}

func DecibelParameter(id uint32, name string, minDB, maxDB, defaultDB float64) *Builder {
	return withUnit(New(id, name), minDB, maxDB, defaultDB, "dB", DecibelFormatter, DecibelParser)
}

// RateParameter is a modulation rate in Hz.
func RateParameter(id uint32, name string, minHz, maxHz, defaultHz float64) *Builder {
	return withUnit(New(id, name), minHz, maxHz, defaultHz, "Hz", FrequencyFormatter, FrequencyParser)
}

// TimeParameter is in milliseconds.
func TimeParameter(id uint32, name string, minMs, maxMs, defaultMs float64) *Builder {
	return withUnit(New(id, name), minMs, maxMs, defaultMs, "ms", TimeFormatter, TimeParser)
}

// RatioParameter is a compression ratio N:1 with no unit string.
func RatioParameter(id uint32, name string, minRatio, maxRatio, defaultRatio float64) *Builder {
	return withUnit(New(id, name), minRatio, maxRatio, defaultRatio, "", RatioFormatter, RatioParser)
}

func SwitchParameter(id uint32, name string, on bool) *Builder {
	b := New(id, name).Toggle()
	if on {
		return b.Default(1)
	}
	return b.Default(0)
}

// MeterParameter is a read-only dB output that starts at 0 dB.
func MeterParameter(id uint32, name string, minDB, maxDB float64) *Builder {
	return DecibelParameter(id, name, minDB, maxDB, 0).ReadOnly()
}
