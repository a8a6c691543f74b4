package domain

import (
	"context"
	"sort"
)

// Cleanup is the value a setup hook hands back to the orchestrator.
// Accepted shapes are nil, func(), func() error, Teardown, Destroyer,
// ErrDestroyer and io.Closer. Any other shape is discarded as a no-op.
type Cleanup any

// Teardown is the canonical cleanup form kept on the cleanup stack.
type Teardown func() error

// Destroyer is implemented by cleanup objects exposing a Destroy method.
type Destroyer interface {
	Destroy()
}

// ErrDestroyer is a Destroyer variant that reports failures.
type ErrDestroyer interface {
	Destroy() error
}

// SetupHook runs while a page is being entered and may return a Cleanup.
type SetupHook func(ctx context.Context, nav NavigationContext) (Cleanup, error)

// Hook runs on phases that never contribute cleanups.
type Hook func(ctx context.Context, nav NavigationContext) error

// DataHook receives the unprocessed navigation payload instead of a NavigationContext.
type DataHook func(ctx context.Context, event NavigationEvent) error

// Module is a behavior unit driven by the orchestrator.
// A nil hook is a pass-through. A nil Namespaces marks the module as global.
type Module struct {
	Name       string
	Namespaces Namespaces

	BeforeEnter SetupHook
	// Once runs only on the first load, in addition to BeforeEnter.
	Once        SetupHook
	AfterEnter  Hook
	BeforeLeave Hook
	AfterLeave  Hook

	EnterData DataHook
	OnceData  DataHook
}

// IsGlobal reports whether the module runs on every navigation.
func (m Module) IsGlobal() bool {
	return m.Namespaces == nil
}

// Handles reports whether the module takes part in navigations for namespace.
func (m Module) Handles(namespace string) bool {
	if m.IsGlobal() {
		return true
	}
	return m.Namespaces.Contains(namespace)
}

// HasHooks reports whether at least one lifecycle hook is set.
func (m Module) HasHooks() bool {
	return m.BeforeEnter != nil || m.Once != nil || m.AfterEnter != nil ||
		m.BeforeLeave != nil || m.AfterLeave != nil ||
		m.EnterData != nil || m.OnceData != nil
}

// Namespaces is the normalized set of destinations a module is bound to.
type Namespaces map[string]struct{}

// NS builds a Namespaces set. A single name and a list are treated the same.
// Empty names are ignored.
func NS(names ...string) Namespaces {
	set := make(Namespaces, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return set
}

// Contains reports whether namespace is in the set.
func (n Namespaces) Contains(namespace string) bool {
	_, ok := n[namespace]
	return ok
}

// List returns the namespaces in sorted order.
func (n Namespaces) List() []string {
	out := make([]string, 0, len(n))
	for ns := range n {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Resolution is the outcome of routing a namespace against the registered modules.
type Resolution struct {
	Global  []Module
	Matched []Module
}

// All returns global modules followed by the matched namespaced ones.
func (r Resolution) All() []Module {
	out := make([]Module, 0, len(r.Global)+len(r.Matched))
	out = append(out, r.Global...)
	return append(out, r.Matched...)
}
