package intel

import (
	"fmt"

	"reconai/pkg/errors"
)

// Registry holds the available intelligence modules. Handles are constructed
// once at startup and injected; nothing here is request-scoped state.
type Registry struct {
	modules map[string]Module
}

func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register adds a module under its own name. Re-registering replaces the
// previous handle.
func (r *Registry) Register(m Module) {
	r.modules[m.Name()] = m
}

// Get returns a registered module by name.
func (r *Registry) Get(name string) (Module, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// Resolve maps requested module names to handles, preserving request order
// and dropping duplicates. An unknown name fails the whole request: silently
// skipping it would break the key-set contract on the final report.
func (r *Registry) Resolve(names []string) ([]Module, error) {
	modules := make([]Module, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		m, ok := r.modules[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", errors.ErrUnknownModule, name)
		}
		modules = append(modules, m)
	}
	return modules, nil
}
