package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/threshold/internal/runtime"
	"github.com/aretw0/threshold/pkg/adapters/effect"
	"github.com/aretw0/threshold/pkg/adapters/file"
	"github.com/aretw0/threshold/pkg/adapters/memory"
	"github.com/aretw0/threshold/pkg/adapters/pages"
	"github.com/aretw0/threshold/pkg/adapters/redis"
	"github.com/aretw0/threshold/pkg/adapters/scroll"
	"github.com/aretw0/threshold/pkg/config"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/modules"
	"github.com/aretw0/threshold/pkg/modules/pagemeta"
	"github.com/aretw0/threshold/pkg/modules/trace"
	"github.com/aretw0/threshold/pkg/observability"
	"github.com/aretw0/threshold/pkg/ports"
	"github.com/aretw0/threshold/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
)

// StackOptions tune how a site is assembled.
type StackOptions struct {
	Logger *slog.Logger
	// Debug adds a lifecycle hook that logs every phase.
	Debug bool
	// Registerer receives the Prometheus collectors. Nil disables metrics.
	Registerer prometheus.Registerer
	// Origin, when set, fetches pages from a running site instead of the site file.
	Origin string
}

// Stack is a site assembled into ready collaborators.
type Stack struct {
	Site     *config.Site
	Logger   *slog.Logger
	Registry *registry.Registry
	Pages    ports.PageSource
	Journal  ports.Journal
	Metrics  *observability.Metrics
	Tracer   *observability.Tracer
	PageMeta *pagemeta.Tracker
	Trace    *trace.Counters

	hooks domain.LifecycleHooks
}

// NewStack builds every collaborator a site file asks for.
func NewStack(site *config.Site, opts StackOptions) (*Stack, error) {
	catalog := modules.NewCatalog()
	if err := site.Validate(catalog.Kinds()...); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("site", site.Name)

	s := &Stack{
		Site:     site,
		Logger:   logger,
		Registry: registry.NewRegistry(),
		PageMeta: pagemeta.NewTracker(),
		Trace:    &trace.Counters{},
		Tracer:   observability.NewTracer(otel.Tracer("github.com/aretw0/threshold")),
	}

	env := modules.Env{Logger: logger, PageMeta: s.PageMeta, Trace: s.Trace}
	for _, spec := range site.ModuleSpecs() {
		m, err := catalog.Build(spec, env)
		if err != nil {
			return nil, err
		}
		if err := s.Registry.Register(m); err != nil {
			return nil, err
		}
	}

	if opts.Origin != "" {
		remote, err := pages.NewRemote(opts.Origin)
		if err != nil {
			return nil, err
		}
		s.Pages = remote
	} else {
		static, err := pages.FromSite(site)
		if err != nil {
			return nil, err
		}
		s.Pages = static
	}

	journal, err := newJournal(site, logger)
	if err != nil {
		return nil, err
	}
	s.Journal = journal

	hooks := []domain.LifecycleHooks{s.Tracer.Hooks()}
	if opts.Debug {
		hooks = append(hooks, observability.LogHooks(logger))
	}
	if opts.Registerer != nil {
		metrics, err := observability.NewMetrics(opts.Registerer)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		s.Metrics = metrics
		hooks = append(hooks, metrics.Hooks())
	}
	meterHooks, err := observability.MeterHooks(otel.Meter("github.com/aretw0/threshold"))
	if err != nil {
		return nil, fmt.Errorf("failed to create instruments: %w", err)
	}
	hooks = append(hooks, meterHooks)
	s.hooks = domain.ChainHooks(hooks...)

	logger.Debug("site assembled",
		"modules", s.Registry.Len(),
		"journal", site.Journal.Kind,
		"effect", site.Effect.Kind,
	)
	return s, nil
}

// NewOrchestrator creates an orchestrator with its own scroll state, sharing the
// registry, journal and hooks of the stack.
func (s *Stack) NewOrchestrator() *runtime.Orchestrator {
	opts := []runtime.Option{
		runtime.WithLogger(s.Logger),
		runtime.WithLifecycleHooks(s.hooks),
		runtime.WithQueue(s.Site.Queue),
		runtime.WithHookTimeout(s.Site.HookTimeout),
		runtime.WithJournal(s.Journal),
	}
	if s.Site.Scroll.Kind == config.ScrollTrack {
		opts = append(opts, runtime.WithScrollSync(scroll.NewTracker(s.Logger)))
	}
	if s.Site.Effect.Kind == config.EffectFade {
		opts = append(opts, runtime.WithTransitionEffect(effect.NewFade(s.Site.Effect.Leave, s.Site.Effect.Enter)))
	}
	return runtime.NewOrchestrator(s.Registry, opts...)
}

// Navigator adapts NewOrchestrator to a session factory.
func (s *Stack) Navigator(string) (ports.Navigator, error) {
	return s.NewOrchestrator(), nil
}

// Close releases the journal backend, if it holds one.
func (s *Stack) Close() error {
	if c, ok := s.Journal.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func newJournal(site *config.Site, logger *slog.Logger) (ports.Journal, error) {
	j := site.Journal
	switch j.Kind {
	case config.JournalNone:
		return nil, nil
	case config.JournalMemory, "":
		return memory.NewJournal(j.MaxEntries), nil
	case config.JournalRedis:
		opts := []redis.Option{redis.WithMaxEntries(j.MaxEntries), redis.WithTTL(j.TTL)}
		if j.Key != "" {
			opts = append(opts, redis.WithKey(j.Key))
		}
		return redis.New(j.Addr, opts...), nil
	case config.JournalFile:
		path := j.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(site.Dir(), path)
		}
		return file.NewJournal(path, file.WithMaxEntries(j.MaxEntries), file.WithLogger(logger)), nil
	}
	return nil, errors.New("unknown journal kind " + j.Kind)
}
