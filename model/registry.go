package model

import "sync"

// Registry maintains the process-wide mapping from table name to model
// descriptor. Registration is its only mutation; after the declaration phase
// it is effectively read-only. All methods are safe for concurrent use, and
// a duplicate-name race resolves deterministically: the loser receives
// *DuplicateNameError.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*ModelDescriptor
	order  []*ModelDescriptor
}

// NewRegistry returns an empty registry. A typical program constructs one at
// startup and passes it to whichever components need lookups.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*ModelDescriptor)}
}

var defaultRegistry = NewRegistry()

// Default returns the shared package-level registry used by the top-level
// Define helpers.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a built descriptor to the registry. It fails with
// *DuplicateNameError if a model with the same table name already exists;
// the earlier registration is retained.
func (r *Registry) Register(m *ModelDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[m.table]; ok {
		return &DuplicateNameError{Table: m.table}
	}
	r.byName[m.table] = m
	r.order = append(r.order, m)
	return nil
}

// Resolve returns the descriptor registered under the given table name, or
// *UnknownModelError if absent.
func (r *Registry) Resolve(table string) (*ModelDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[table]
	if !ok {
		return nil, &UnknownModelError{Table: table}
	}
	return m, nil
}

// Models returns every registered descriptor in registration order.
func (r *Registry) Models() []*ModelDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*ModelDescriptor(nil), r.order...)
}

// Position returns the registration index of a descriptor, or -1 if it is
// not registered here. Used by creation planning for stable tie-breaking.
func (r *Registry) Position(m *ModelDescriptor) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, reg := range r.order {
		if reg == m {
			return i
		}
	}
	return -1
}

// Reset removes every registered model. This is primarily used by tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName = make(map[string]*ModelDescriptor)
	r.order = nil
}

// Define builds a Shape and registers the result in one step: the
// declaration-time entry point. Registration is all-or-nothing: a shape
// that fails validation leaves the registry untouched.
func Define(r *Registry, shape Shape) (*ModelDescriptor, error) {
	m, err := Build(shape)
	if err != nil {
		return nil, err
	}
	if err := r.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// MustDefine is a helper that calls Define and panics on error. It is
// intended for application initialization.
func MustDefine(r *Registry, shape Shape) *ModelDescriptor {
	m, err := Define(r, shape)
	if err != nil {
		panic(err)
	}
	return m
}
