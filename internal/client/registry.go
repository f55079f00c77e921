package client

import (
	"github.com/cockroachdb/errors"

	overtureerrors "github.com/thoreinstein/overture/internal/errors"
)

// ErrAdapterAlreadyRegistered is returned when registering a second adapter
// under the same client id.
var ErrAdapterAlreadyRegistered = errors.New("adapter already registered")

// Registry maps client ids to adapters. It is an explicit constructed
// value, populated once at process start and passed into the sync engine
// and discovery service; there is no global registry.
//
// Registration order is preserved and defines iteration order everywhere.
type Registry struct {
	order    []string
	adapters map[string]Adapter
}

// NewRegistry creates a new empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
	}
}

// Register adds an adapter under its Name().
// Returns ErrAdapterAlreadyRegistered when the id is already in use.
func (r *Registry) Register(a Adapter) error {
	name := a.Name()
	if _, exists := r.adapters[name]; exists {
		return errors.Wrapf(ErrAdapterAlreadyRegistered, "%s", name)
	}
	r.adapters[name] = a
	r.order = append(r.order, name)
	return nil
}

// Get returns the adapter for name, or false when unknown.
func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// Lookup returns the adapter for name, failing loudly with ErrUnknownAdapter
// for unknown names. Sync paths use this rather than Get to prevent a typo'd
// client id from becoming a silent no-op.
func (r *Registry) Lookup(name string) (Adapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, errors.Wrapf(overtureerrors.ErrUnknownAdapter, "%s", name)
	}
	return a, nil
}

// Names returns all registered client ids in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// All returns all registered adapters in registration order.
func (r *Registry) All() []Adapter {
	adapters := make([]Adapter, 0, len(r.order))
	for _, name := range r.order {
		adapters = append(adapters, r.adapters[name])
	}
	return adapters
}

// Installed returns registered adapters whose config location is
// addressable on the given platform, preserving registration order.
func (r *Registry) Installed(platform string) []Adapter {
	installed := make([]Adapter, 0, len(r.order))
	for _, name := range r.order {
		if a := r.adapters[name]; a.IsInstalled(platform) {
			installed = append(installed, a)
		}
	}
	return installed
}
