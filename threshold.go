package threshold

import (
	"log/slog"

	"github.com/aretw0/threshold/internal/cli"
	"github.com/aretw0/threshold/internal/runtime"
	"github.com/aretw0/threshold/pkg/config"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/registry"
)

// Version is the release of threshold. It is overridden at link time.
var Version = "0.1.0"

type (
	// Orchestrator runs navigation cycles for one visitor.
	Orchestrator = runtime.Orchestrator
	// Option configures an Orchestrator.
	Option = runtime.Option
	// Stack is a site file assembled into collaborators.
	Stack = cli.Stack
	// StackOptions tune Load.
	StackOptions = cli.StackOptions
)

// Orchestrator options.
var (
	WithLogger           = runtime.WithLogger
	WithLifecycleHooks   = runtime.WithLifecycleHooks
	WithScrollSync       = runtime.WithScrollSync
	WithTransitionEffect = runtime.WithTransitionEffect
	WithJournal          = runtime.WithJournal
	WithHookTimeout      = runtime.WithHookTimeout
	WithQueue            = runtime.WithQueue
	WithClock            = runtime.WithClock
)

// New creates an orchestrator routing navigations to modules.
func New(modules []domain.Module, opts ...Option) (*Orchestrator, error) {
	reg := registry.NewRegistry()
	for _, m := range modules {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return runtime.NewOrchestrator(reg, opts...), nil
}

// Load reads the site file at path and assembles it. Orchestrators are then created
// with Stack.NewOrchestrator, one per visitor.
func Load(path string, opts StackOptions) (*Stack, error) {
	site, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return cli.NewStack(site, opts)
}
