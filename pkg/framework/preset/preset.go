// Package preset loads factory presets from YAML and applies them to a
// parameter registry.
package preset

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/justyntemme/dynacore/pkg/framework/param"
)

//go:embed presets.yaml
var factoryYAML []byte

// Group is a preset category
type Group string

// Preset groups
const (
	GroupVocals       Group = "vocals"
	GroupPads         Group = "pads"
	GroupDrums        Group = "drums"
	GroupExperimental Group = "exp"
)

// Groups lists every group in display order
var Groups = []Group{GroupVocals, GroupPads, GroupDrums, GroupExperimental}

var (
	// ErrUnknownKey is returned for a value whose key is not registered
	ErrUnknownKey = errors.New("unknown parameter key")
	// ErrReadOnly is returned for a value that targets an output parameter
	ErrReadOnly = errors.New("read-only parameter")
	// ErrInvalid is returned for a malformed bank
	ErrInvalid = errors.New("invalid preset bank")
)

// Preset is a named set of plain parameter values
type Preset struct {
	Name   string             `yaml:"name"`
	Group  Group              `yaml:"group"`
	Values map[string]float64 `yaml:"values"`
}

// Bank is an ordered preset collection
type Bank struct {
	Presets []Preset `yaml:"presets"`
}

// Parse decodes and validates a YAML bank
func Parse(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	seen := make(map[string]bool, len(b.Presets))
	for i, p := range b.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: preset %d has no name", ErrInvalid, i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: duplicate preset %q", ErrInvalid, p.Name)
		}
		seen[p.Name] = true
		if !validGroup(p.Group) {
			return nil, fmt.Errorf("%w: preset %q: unknown group %q", ErrInvalid, p.Name, p.Group)
		}
	}
	return &b, nil
}

// Factory returns the embedded factory bank
func Factory() (*Bank, error) {
	b, err := Parse(factoryYAML)
	if err != nil {
		return nil, fmt.Errorf("factory presets: %w", err)
	}
	return b, nil
}

func validGroup(g Group) bool {
	for _, known := range Groups {
		if g == known {
			return true
		}
	}
	return false
}

// Find looks a preset up by name
func (b *Bank) Find(name string) (*Preset, bool) {
	for i := range b.Presets {
		if b.Presets[i].Name == name {
			return &b.Presets[i], true
		}
	}
	return nil, false
}

// Group returns the presets in g, in bank order
func (b *Bank) Group(g Group) []*Preset {
	var out []*Preset
	for i := range b.Presets {
		if b.Presets[i].Group == g {
			out = append(out, &b.Presets[i])
		}
	}
	return out
}

// Names returns every preset name in bank order
func (b *Bank) Names() []string {
	names := make([]string, len(b.Presets))
	for i, p := range b.Presets {
		names[i] = p.Name
	}
	return names
}

// Validate checks that every preset resolves against reg
func (b *Bank) Validate(reg *param.Registry) error {
	for i := range b.Presets {
		if _, err := b.Presets[i].resolve(reg); err != nil {
			return err
		}
	}
	return nil
}

// Apply sets the preset's values on reg. Nothing is changed if any key
// fails to resolve.
func (p *Preset) Apply(reg *param.Registry) error {
	params, err := p.resolve(reg)
	if err != nil {
		return err
	}
	for _, k := range p.Keys() {
		params[k].SetPlainValue(p.Values[k])
	}
	return nil
}

// Recall resets reg to its defaults and then applies the preset, so the
// result does not depend on earlier settings. Nothing is changed if any
// key fails to resolve.
func (p *Preset) Recall(reg *param.Registry) error {
	params, err := p.resolve(reg)
	if err != nil {
		return err
	}
	Defaults(reg)
	for _, k := range p.Keys() {
		params[k].SetPlainValue(p.Values[k])
	}
	return nil
}

// Keys returns the preset's keys sorted
func (p *Preset) Keys() []string {
	keys := make([]string, 0, len(p.Values))
	for k := range p.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p *Preset) resolve(reg *param.Registry) (map[string]*param.Parameter, error) {
	params := make(map[string]*param.Parameter, len(p.Values))
	for _, k := range p.Keys() {
		prm := reg.ByKey(k)
		if prm == nil {
			return nil, fmt.Errorf("preset %q: key %q: %w", p.Name, k, ErrUnknownKey)
		}
		if prm.IsReadOnly() {
			return nil, fmt.Errorf("preset %q: key %q: %w", p.Name, k, ErrReadOnly)
		}
		params[k] = prm
	}
	return params, nil
}

// Defaults resets every writable parameter to its default
func Defaults(reg *param.Registry) {
	for _, p := range reg.All() {
		if !p.IsReadOnly() {
			p.ResetToDefault()
		}
	}
}
