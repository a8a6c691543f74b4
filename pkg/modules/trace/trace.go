// Package trace logs page mounts and teardowns. It is the smallest useful module
// and shows how features compose into one setup hook.
package trace

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/aretw0/threshold/pkg/cleanup"
	"github.com/aretw0/threshold/pkg/domain"
)

// Options configures the module.
type Options struct {
	Label string `mapstructure:"label"`
}

// Counters exposes how often the module mounted and cleaned.
type Counters struct {
	mounted atomic.Int64
	cleaned atomic.Int64
}

// Mounted returns the number of mounts.
func (c *Counters) Mounted() int64 { return c.mounted.Load() }

// Cleaned returns the number of cleanups.
func (c *Counters) Cleaned() int64 { return c.cleaned.Load() }

// New returns the trace module. A nil logger discards output; a nil counters value is allowed.
func New(name string, namespaces domain.Namespaces, opts Options, logger *slog.Logger, counters *Counters) domain.Module {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if counters == nil {
		counters = &Counters{}
	}
	label := opts.Label
	if label == "" {
		label = name
	}
	logger = logger.With("module", name, "label", label)

	mount := func(ctx context.Context, nav domain.NavigationContext) (domain.Cleanup, error) {
		counters.mounted.Add(1)
		logger.InfoContext(ctx, "feature mounted", "namespace", nav.Namespace, "first_load", nav.IsFirstLoad)
		return func() {
			counters.cleaned.Add(1)
			logger.InfoContext(ctx, "feature cleaned", "namespace", nav.Namespace)
		}, nil
	}
	routes := func(ctx context.Context, nav domain.NavigationContext) (domain.Cleanup, error) {
		if nav.From != nil {
			logger.DebugContext(ctx, "arrived", "from", nav.From.Namespace, "to", nav.Namespace)
		}
		return nil, nil
	}

	return domain.Module{
		Name:        name,
		Namespaces:  namespaces,
		BeforeEnter: cleanup.Compose(mount, routes),
		Once: func(ctx context.Context, nav domain.NavigationContext) (domain.Cleanup, error) {
			logger.InfoContext(ctx, "first visit", "namespace", nav.Namespace)
			return nil, nil
		},
		BeforeLeave: func(ctx context.Context, nav domain.NavigationContext) error {
			if nav.To != nil {
				logger.DebugContext(ctx, "leaving", "from", nav.Namespace, "to", nav.To.Namespace)
			}
			return nil
		},
	}
}
