package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// WithScrollSync sets the scroll synchronization collaborator.
func WithScrollSync(scroll ports.ScrollSync) Option {
	return func(o *Orchestrator) {
		if scroll != nil {
			o.scroll = scroll
		}
	}
}

// WithTransitionEffect sets the leave/enter visual effect.
func WithTransitionEffect(effect ports.TransitionEffect) Option {
	return func(o *Orchestrator) {
		if effect != nil {
			o.effect = effect
		}
	}
}

// WithJournal records a report for every completed cycle.
func WithJournal(journal ports.Journal) Option {
	return func(o *Orchestrator) {
		o.journal = journal
	}
}

// WithHookTimeout bounds the context handed to each hook. Zero disables the bound.
func WithHookTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.hookTimeout = d
	}
}

// WithQueue makes overlapping navigations wait for the active cycle instead of failing
// with domain.ErrCycleInProgress.
func WithQueue(queue bool) Option {
	return func(o *Orchestrator) {
		o.queue = queue
	}
}

// WithClock overrides the time source used for reports.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}
