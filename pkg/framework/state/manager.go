// Package state saves and restores plugin parameter state.
package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/justyntemme/dynacore/pkg/framework/param"
)

// Magic opens every state blob
const Magic = "DYNACR"

// Version is the blob version written by Save
const Version uint32 = 1

var (
	// ErrInvalidFormat is returned for data that is not a state blob
	ErrInvalidFormat = errors.New("invalid state format")
	// ErrUnsupportedVersion is returned for blobs newer than Version
	ErrUnsupportedVersion = errors.New("unsupported state version")
)

// Manager handles plugin state saving and loading
type Manager struct {
	version    uint32
	registry   *param.Registry
	customSave CustomSaveFunc
	customLoad CustomLoadFunc
}

// CustomSaveFunc writes plugin state beyond parameters
type CustomSaveFunc func(w io.Writer) error

// CustomLoadFunc reads what the matching CustomSaveFunc wrote
type CustomLoadFunc func(r io.Reader) error

// NewManager creates a new state manager
func NewManager(registry *param.Registry) *Manager {
	return &Manager{
		version:  Version,
		registry: registry,
	}
}

// SetCustomState sets the functions that save and load custom state
func (m *Manager) SetCustomState(save CustomSaveFunc, load CustomLoadFunc) {
	m.customSave = save
	m.customLoad = load
}

// Save writes the plugin state to a writer
func (m *Manager) Save(w io.Writer) error {
	if _, err := io.WriteString(w, Magic); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.version); err != nil {
		return fmt.Errorf("write version: %w", err)
	}

	params := m.registry.All()
	if err := binary.Write(w, binary.LittleEndian, int32(len(params))); err != nil {
		return fmt.Errorf("write parameter count: %w", err)
	}

	for _, p := range params {
		if err := binary.Write(w, binary.LittleEndian, p.ID); err != nil {
			return fmt.Errorf("write parameter %d: %w", p.ID, err)
		}
		if err := binary.Write(w, binary.LittleEndian, p.GetValue()); err != nil {
			return fmt.Errorf("write parameter %d: %w", p.ID, err)
		}
	}

	if m.customSave == nil {
		if err := binary.Write(w, binary.LittleEndian, uint32(0)); err != nil {
			return fmt.Errorf("write custom flag: %w", err)
		}
		return nil
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(1)); err != nil {
		return fmt.Errorf("write custom flag: %w", err)
	}
	if err := m.customSave(w); err != nil {
		return fmt.Errorf("write custom state: %w", err)
	}
	return nil
}

// Load reads the plugin state from a reader. Unknown parameter IDs and
// read-only parameters are skipped.
func (m *Manager) Load(r io.Reader) error {
	header := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("read header: %w", errors.Join(ErrInvalidFormat, err))
	}
	if string(header) != Magic {
		return fmt.Errorf("header %q: %w", header, ErrInvalidFormat)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("read version: %w", errors.Join(ErrInvalidFormat, err))
	}
	if version > m.version {
		return fmt.Errorf("state version %d is newer than %d: %w", version, m.version, ErrUnsupportedVersion)
	}

	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("read parameter count: %w", errors.Join(ErrInvalidFormat, err))
	}
	if count < 0 {
		return fmt.Errorf("parameter count %d: %w", count, ErrInvalidFormat)
	}

	for i := int32(0); i < count; i++ {
		var id uint32
		var value float64
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return fmt.Errorf("read parameter %d of %d: %w", i, count, errors.Join(ErrInvalidFormat, err))
		}
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return fmt.Errorf("read parameter %d value: %w", id, errors.Join(ErrInvalidFormat, err))
		}

		if p := m.registry.Get(id); p != nil && !p.IsReadOnly() {
			p.SetValue(value)
		}
	}

	var hasCustom uint32
	if err := binary.Read(r, binary.LittleEndian, &hasCustom); err != nil {
		return fmt.Errorf("read custom flag: %w", errors.Join(ErrInvalidFormat, err))
	}

	if hasCustom != 0 && m.customLoad != nil {
		if err := m.customLoad(r); err != nil {
			return fmt.Errorf("read custom state: %w", err)
		}
	}

	return nil
}
