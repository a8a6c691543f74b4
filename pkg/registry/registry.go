package registry

import (
	"fmt"
	"sync"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
)

var _ ports.ModuleRouter = (*Registry)(nil)

// Registry holds the behavior modules known to an orchestrator.
// Modules are registered at start-up and kept for the lifetime of the process.
type Registry struct {
	mu      sync.RWMutex
	modules []domain.Module
	names   map[string]struct{}
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		names: make(map[string]struct{}),
	}
}

// Register adds a module. Names must be unique and the module must define at least one hook.
func (r *Registry) Register(m domain.Module) error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidModule)
	}
	if !m.HasHooks() {
		return fmt.Errorf("%w: %s defines no hooks", domain.ErrInvalidModule, m.Name)
	}
	if m.Namespaces != nil && len(m.Namespaces) == 0 {
		return fmt.Errorf("%w: %s has an empty namespace set", domain.ErrInvalidModule, m.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[m.Name]; exists {
		return fmt.Errorf("%w: %s", domain.ErrModuleExists, m.Name)
	}
	r.names[m.Name] = struct{}{}
	r.modules = append(r.modules, m)
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(modules ...domain.Module) {
	for _, m := range modules {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the global modules and the namespaced modules bound to namespace,
// both in registration order.
func (r *Registry) Resolve(namespace string) domain.Resolution {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var res domain.Resolution
	for _, m := range r.modules {
		switch {
		case m.IsGlobal():
			res.Global = append(res.Global, m)
		case m.Namespaces.Contains(namespace):
			res.Matched = append(res.Matched, m)
		}
	}
	return res
}

// Modules returns a copy of the registered modules.
func (r *Registry) Modules() []domain.Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Module, len(r.modules))
	copy(out, r.modules)
	return out
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.modules)
}
