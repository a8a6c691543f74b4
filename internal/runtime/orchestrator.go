package runtime

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/threshold/pkg/cleanup"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Orchestrator is the navigation lifecycle state machine.
// It owns the cleanup stack and the first-load flag; nothing is shared between instances.
type Orchestrator struct {
	router      ports.ModuleRouter
	scroll      ports.ScrollSync
	effect      ports.TransitionEffect
	journal     ports.Journal
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	hookTimeout time.Duration
	queue       bool
	now         func() time.Time

	// gate holds the cycle token. Only its holder may touch cleanups or active.
	gate      chan struct{}
	firstLoad *atomic.Bool
	closed    *atomic.Bool
	cleanups  *cleanup.Stack

	mu     sync.RWMutex
	phase  domain.Phase
	active *domain.Page
	cycles int
}

// NewOrchestrator creates an orchestrator routing navigations through router.
func NewOrchestrator(router ports.ModuleRouter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		router:    router,
		scroll:    noopScroll{},
		effect:    noopEffect{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		gate:      make(chan struct{}, 1),
		firstLoad: atomic.NewBool(true),
		closed:    atomic.NewBool(false),
		cleanups:  cleanup.NewStack(),
		phase:     domain.PhaseIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Navigate runs a full cycle: the leave phases of the active page (if any) followed by
// the enter phases of event.Next. The very first call runs the first-load variant.
// Module failures never surface here; they are logged and recorded in the report.
func (o *Orchestrator) Navigate(ctx context.Context, event domain.NavigationEvent) (*domain.CycleReport, error) {
	if event.Next == nil {
		return nil, domain.ErrNoDestination
	}
	release, err := o.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	active := o.activePage()
	report := o.newReport(domain.CycleTransition, event)

	if active == nil && o.firstLoad.Load() {
		report.Kind = domain.CycleFirstLoad
		o.logger.InfoContext(ctx, "first load", "cycle", report.ID, "namespace", event.EnterNamespace())
		o.enter(ctx, event, report, true)
	} else {
		if event.Current == nil {
			event.Current = active
		}
		report.From = event.LeaveNamespace()
		o.logger.InfoContext(ctx, "navigating", "cycle", report.ID, "from", report.From, "to", report.To)
		if event.Current != nil {
			o.leave(ctx, event, report)
		}
		o.enter(ctx, event, report, false)
	}

	o.finish(ctx, report)
	return report, nil
}

// Close runs the leave cycle of the active page, draining every pending cleanup,
// and makes later navigations fail with domain.ErrClosed.
func (o *Orchestrator) Close(ctx context.Context) (*domain.CycleReport, error) {
	release, err := o.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	o.closed.Store(true)
	active := o.activePage()
	event := domain.NavigationEvent{Current: active}
	report := o.newReport(domain.CycleClose, event)
	if active != nil {
		report.From = active.Namespace
		o.leave(ctx, event, report)
	}
	if o.cleanups.Len() > 0 {
		o.drain(ctx, report)
	}
	o.setPhase(domain.PhaseClosed)
	o.finish(ctx, report)
	return report, nil
}

// Snapshot returns the current orchestrator state.
func (o *Orchestrator) Snapshot() domain.Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	snap := domain.Snapshot{
		Phase:           o.phase,
		IsFirstLoad:     o.firstLoad.Load(),
		PendingCleanups: o.cleanups.Len(),
		Cycles:          o.cycles,
		Closed:          o.closed.Load(),
	}
	if o.active != nil {
		snap.ActiveNamespace = o.active.Namespace
	}
	return snap
}

// acquire takes the exclusive cycle token. Without queueing, a busy orchestrator
// rejects the call; with queueing, the caller waits until the token frees up or ctx ends.
func (o *Orchestrator) acquire(ctx context.Context) (func(), error) {
	if o.closed.Load() {
		return nil, domain.ErrClosed
	}
	if o.queue {
		select {
		case o.gate <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else {
		select {
		case o.gate <- struct{}{}:
		default:
			return nil, domain.ErrCycleInProgress
		}
	}
	if o.closed.Load() {
		<-o.gate
		return nil, domain.ErrClosed
	}
	return func() { <-o.gate }, nil
}

func (o *Orchestrator) newReport(kind domain.CycleKind, event domain.NavigationEvent) *domain.CycleReport {
	report := &domain.CycleReport{
		ID:        uuid.NewString(),
		Kind:      kind,
		FirstLoad: o.firstLoad.Load(),
		StartedAt: o.now(),
	}
	if event.Next != nil {
		report.To = event.EnterNamespace()
	}
	return report
}

func (o *Orchestrator) finish(ctx context.Context, report *domain.CycleReport) {
	report.Duration = o.now().Sub(report.StartedAt)

	o.mu.Lock()
	o.cycles++
	o.mu.Unlock()

	if o.journal != nil {
		if err := o.journal.Append(ctx, report); err != nil {
			o.logger.WarnContext(ctx, "failed to journal cycle", "cycle", report.ID, "err", err)
		}
	}
	if o.hooks.OnCycleComplete != nil {
		o.hooks.OnCycleComplete(ctx, report)
	}
	o.logger.DebugContext(ctx, "cycle complete",
		"cycle", report.ID,
		"kind", report.Kind,
		"hooks", report.HooksRun,
		"hook_failures", len(report.HookFailures),
		"cleanups_run", report.CleanupsRun,
		"duration", report.Duration,
	)
}

func (o *Orchestrator) activePage() *domain.Page {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.active
}

func (o *Orchestrator) setActive(p *domain.Page) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = p
}

func (o *Orchestrator) setPhase(p domain.Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phase = p
}
