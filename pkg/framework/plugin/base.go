package plugin

import (
	"fmt"
	"io"

	"github.com/justyntemme/dynacore/pkg/framework/state"
)

// Base ties plugin metadata, the base processor and state persistence
// together
type Base struct {
	*BaseProcessor
	Info  Info
	state *state.Manager
}

// NewBase creates a plugin base from its metadata
func NewBase(info Info) (*Base, error) {
	if err := info.ValidateUID(); err != nil {
		return nil, err
	}
	layouts, err := info.Layouts()
	if err != nil {
		return nil, err
	}

	b := &Base{
		BaseProcessor: NewBaseProcessor(layouts),
		Info:          info,
	}
	b.state = state.NewManager(b.params)
	return b, nil
}

// State returns the state manager, for registering custom state
func (b *Base) State() *state.Manager {
	return b.state
}

// SaveState writes all parameter values and any custom state
func (b *Base) SaveState(w io.Writer) error {
	if err := b.state.Save(w); err != nil {
		return fmt.Errorf("%s: save state: %w", b.Info.Name, err)
	}
	return nil
}

// LoadState restores parameter values and any custom state
func (b *Base) LoadState(r io.Reader) error {
	if err := b.state.Load(r); err != nil {
		return fmt.Errorf("%s: load state: %w", b.Info.Name, err)
	}
	return nil
}
