package param

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicate is returned when a parameter ID or key is already registered
var ErrDuplicate = errors.New("duplicate parameter")

// Registry holds a plugin's parameters by ID, by key and in registration
// order. It is safe for concurrent use; the parameters themselves are
// read and written atomically without the registry lock.
type Registry struct {
	mu     sync.RWMutex
	byID   map[uint32]*Parameter
	byKey  map[string]*Parameter
	params []*Parameter
}

func NewRegistry() *Registry {
	return &Registry{
		byID:  make(map[uint32]*Parameter),
		byKey: make(map[string]*Parameter),
	}
}

// Add registers params atomically: on any ID or key collision, with the
// registry or within params, nothing is added.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[uint32]struct{}, len(params))
	keys := make(map[string]struct{}, len(params))
	for _, p := range params {
		if err := r.checkFree(p, ids, keys); err != nil {
			return err
		}
		ids[p.ID] = struct{}{}
		if p.Key != "" {
			keys[p.Key] = struct{}{}
		}
	}

	for _, p := range params {
		r.byID[p.ID] = p
		if p.Key != "" {
			r.byKey[p.Key] = p
		}
	}
	r.params = append(r.params, params...)
	return nil
}

func (r *Registry) checkFree(p *Parameter, ids map[uint32]struct{}, keys map[string]struct{}) error {
	_, taken := r.byID[p.ID]
	if _, pending := ids[p.ID]; taken || pending {
		return fmt.Errorf("parameter ID %d: %w", p.ID, ErrDuplicate)
	}
	if p.Key == "" {
		return nil
	}
	_, taken = r.byKey[p.Key]
	if _, pending := keys[p.Key]; taken || pending {
		return fmt.Errorf("parameter key %q: %w", p.Key, ErrDuplicate)
	}
	return nil
}

// Get returns nil for an unknown ID.
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// ByKey returns nil for an unknown key.
func (r *Registry) ByKey(key string) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byKey[key]
}

// GetByIndex returns the index-th registered parameter, or nil.
func (r *Registry) GetByIndex(index int32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || int(index) >= len(r.params) {
		return nil
	}
	return r.params[index]
}

func (r *Registry) Count() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int32(len(r.params))
}

// All returns a copy of the parameters in registration order.
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Parameter(nil), r.params...)
}

// Keys lists the non-empty keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.byKey))
	for _, p := range r.params {
		if p.Key != "" {
			keys = append(keys, p.Key)
		}
	}
	return keys
}
