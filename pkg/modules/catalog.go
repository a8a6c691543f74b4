// Package modules holds the built-in behavior modules and the catalog that builds
// them from configuration.
package modules

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/modules/accordion"
	"github.com/aretw0/threshold/pkg/modules/pagemeta"
	"github.com/aretw0/threshold/pkg/modules/reveal"
	"github.com/aretw0/threshold/pkg/modules/trace"
	"github.com/mitchellh/mapstructure"
)

// Built-in module kinds.
const (
	KindAccordion = "accordion"
	KindReveal    = "reveal"
	KindPageMeta  = "pagemeta"
	KindTrace     = "trace"
)

// Spec describes one configured module instance.
type Spec struct {
	Name       string
	Kind       string
	Namespaces domain.Namespaces
	Options    map[string]any
}

// Env carries the shared collaborators handed to factories.
type Env struct {
	Logger   *slog.Logger
	PageMeta *pagemeta.Tracker
	Trace    *trace.Counters
}

// Factory builds a module from its spec.
type Factory func(spec Spec, env Env) (domain.Module, error)

// Catalog maps module kinds to factories.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewCatalog returns a catalog preloaded with the built-in kinds.
func NewCatalog() *Catalog {
	c := &Catalog{factories: make(map[string]Factory)}
	c.MustRegister(KindAccordion, func(spec Spec, _ Env) (domain.Module, error) {
		opts := accordion.DefaultOptions()
		if err := Decode(spec.Options, &opts); err != nil {
			return domain.Module{}, err
		}
		return accordion.New(spec.Name, spec.Namespaces, opts), nil
	})
	c.MustRegister(KindReveal, func(spec Spec, _ Env) (domain.Module, error) {
		opts := reveal.DefaultOptions()
		if err := Decode(spec.Options, &opts); err != nil {
			return domain.Module{}, err
		}
		return reveal.New(spec.Name, spec.Namespaces, opts), nil
	})
	c.MustRegister(KindPageMeta, func(spec Spec, env Env) (domain.Module, error) {
		opts := pagemeta.DefaultOptions()
		if err := Decode(spec.Options, &opts); err != nil {
			return domain.Module{}, err
		}
		return pagemeta.New(spec.Name, spec.Namespaces, opts, env.PageMeta), nil
	})
	c.MustRegister(KindTrace, func(spec Spec, env Env) (domain.Module, error) {
		var opts trace.Options
		if err := Decode(spec.Options, &opts); err != nil {
			return domain.Module{}, err
		}
		return trace.New(spec.Name, spec.Namespaces, opts, env.Logger, env.Trace), nil
	})
	return c
}

// Register installs a factory for kind.
func (c *Catalog) Register(kind string, factory Factory) error {
	if kind == "" {
		return fmt.Errorf("%w: kind is required", domain.ErrInvalidModule)
	}
	if factory == nil {
		return fmt.Errorf("%w: factory is required for %s", domain.ErrInvalidModule, kind)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.factories[kind]; exists {
		return fmt.Errorf("%w: kind %s", domain.ErrModuleExists, kind)
	}
	c.factories[kind] = factory
	return nil
}

// MustRegister panics if registration fails.
func (c *Catalog) MustRegister(kind string, factory Factory) {
	if err := c.Register(kind, factory); err != nil {
		panic(err)
	}
}

// Build constructs the module described by spec. The name defaults to the kind.
func (c *Catalog) Build(spec Spec, env Env) (domain.Module, error) {
	c.mu.RLock()
	factory, ok := c.factories[spec.Kind]
	c.mu.RUnlock()
	if !ok {
		return domain.Module{}, fmt.Errorf("%w: %q", domain.ErrUnknownModuleKind, spec.Kind)
	}
	if spec.Name == "" {
		spec.Name = spec.Kind
	}
	if env.Logger == nil {
		env.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if env.PageMeta == nil {
		env.PageMeta = pagemeta.NewTracker()
	}
	if env.Trace == nil {
		env.Trace = &trace.Counters{}
	}

	m, err := factory(spec, env)
	if err != nil {
		return domain.Module{}, fmt.Errorf("module %s (%s): %w", spec.Name, spec.Kind, err)
	}
	return m, nil
}

// Kinds returns the registered kinds, sorted.
func (c *Catalog) Kinds() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	kinds := make([]string, 0, len(c.factories))
	for k := range c.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Decode maps a loosely typed options map onto out. Unknown keys are rejected.
func Decode(input map[string]any, out any) error {
	if len(input) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
