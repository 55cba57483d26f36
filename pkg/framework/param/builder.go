package param

// Builder configures a Parameter before registration. Defaults are given
// in the plain range and clamped when Build runs.
type Builder struct {
	p          *Parameter
	plainDef   float64
	hasDefault bool
}

// New starts an automatable 0..1 parameter. ShortName falls back to name.
func New(id uint32, name string) *Builder {
	return &Builder{p: &Parameter{
		ID:        id,
		Name:      name,
		ShortName: name,
		Max:       1,
		Flags:     CanAutomate,
	}}
}

func (b *Builder) ShortName(name string) *Builder {
	b.p.ShortName = name
	return b
}

// Key names the parameter in presets and on the command line.
func (b *Builder) Key(key string) *Builder {
	b.p.Key = key
	return b
}

func (b *Builder) Range(min, max float64) *Builder {
	b.p.Min, b.p.Max = min, max
	return b
}

func (b *Builder) Default(plain float64) *Builder {
	b.plainDef, b.hasDefault = plain, true
	return b
}

func (b *Builder) Unit(unit string) *Builder {
	b.p.Unit = unit
	return b
}

// Steps makes the parameter discrete with count steps across its range.
func (b *Builder) Steps(count int32) *Builder {
	b.p.StepCount = count
	return b
}

// Toggle turns the parameter into a one-step On/Off switch.
func (b *Builder) Toggle() *Builder {
	return b.Range(0, 1).Steps(1).Formatter(OnOffFormatter, OnOffParser)
}

// ReadOnly marks an output such as a meter. Outputs are never automated.
func (b *Builder) ReadOnly() *Builder {
	b.p.Flags = (b.p.Flags | IsReadOnly) &^ CanAutomate
	return b
}

// Bypass tags the parameter as the plugin-wide bypass switch.
func (b *Builder) Bypass() *Builder {
	b.p.Flags |= IsBypass
	return b
}

func (b *Builder) Formatter(format func(float64) string, parse func(string) (float64, error)) *Builder {
	b.p.SetFormatter(format, parse)
	return b
}

// Build finalizes the default and sets the current value to it.
func (b *Builder) Build() *Parameter {
	if b.hasDefault {
		b.p.DefaultValue = b.p.Normalize(b.plainDef)
	}
	b.p.ResetToDefault()
	return b.p
}
