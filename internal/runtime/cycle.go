package runtime

import (
	"context"
	"time"

	"github.com/aretw0/threshold/pkg/domain"
	"golang.org/x/net/html"
)

// enter runs BeforeEnter and EnterData (plus Once and OnceData on the first load), then AfterEnter.
// Outside the first load, the enter effect starts alongside AfterEnter and both are joined.
func (o *Orchestrator) enter(ctx context.Context, event domain.NavigationEvent, report *domain.CycleReport, first bool) {
	o.scroll.Start()
	o.scroll.JumpToTop(true)

	namespace := event.EnterNamespace()
	modules := o.router.Resolve(namespace).All()
	container := event.Next.Container
	from := domain.RouteOf(event.Current)

	nav := o.navContext(report, domain.PhaseBeforeEnter, namespace, container)
	nav.From = from
	tasks := Tasks(modules, domain.HookBeforeEnter, func(m domain.Module) Call { return setupCall(m.BeforeEnter, nav) })
	if first {
		tasks = append(tasks, Tasks(modules, domain.HookOnce, func(m domain.Module) Call { return setupCall(m.Once, nav) })...)
	}
	for _, res := range o.runPhase(ctx, report, domain.PhaseBeforeEnter, namespace, tasks) {
		o.register(ctx, report, res)
	}

	dataTasks := Tasks(modules, domain.HookEnterData, func(m domain.Module) Call { return dataCall(m.EnterData, event) })
	if first {
		dataTasks = append(dataTasks, Tasks(modules, domain.HookOnceData, func(m domain.Module) Call { return dataCall(m.OnceData, event) })...)
	}
	o.runPhase(ctx, report, domain.PhaseEnterData, namespace, dataTasks)

	var effectDone chan error
	if !first {
		effectDone = make(chan error, 1)
		go func() {
			effectDone <- o.effect.BeginEnter(ctx, container)
		}()
	}

	nav = o.navContext(report, domain.PhaseAfterEnter, namespace, container)
	nav.From = from
	o.runPhase(ctx, report, domain.PhaseAfterEnter, namespace,
		Tasks(modules, domain.HookAfterEnter, func(m domain.Module) Call { return plainCall(m.AfterEnter, nav) }))

	if effectDone != nil {
		if err := <-effectDone; err != nil {
			o.logger.WarnContext(ctx, "enter effect failed", "cycle", report.ID, "namespace", namespace, "err", err)
		}
	}

	o.setActive(event.Next)
	o.setPhase(domain.PhaseActive)
}

// leave runs BeforeLeave, the leave effect, the cleanup drain and AfterLeave for event.Current.
func (o *Orchestrator) leave(ctx context.Context, event domain.NavigationEvent, report *domain.CycleReport) {
	namespace := event.LeaveNamespace()
	modules := o.router.Resolve(namespace).All()
	container := event.Current.Container
	to := domain.RouteOf(event.Next)

	nav := o.navContext(report, domain.PhaseBeforeLeave, namespace, container)
	nav.To = to
	o.runPhase(ctx, report, domain.PhaseBeforeLeave, namespace,
		Tasks(modules, domain.HookBeforeLeave, func(m domain.Module) Call { return plainCall(m.BeforeLeave, nav) }))

	o.setPhase(domain.PhaseLeaveEffect)
	if err := o.effect.BeginLeave(ctx, container); err != nil {
		o.logger.WarnContext(ctx, "leave effect failed", "cycle", report.ID, "namespace", namespace, "err", err)
	}

	o.drain(ctx, report)

	nav = o.navContext(report, domain.PhaseAfterLeave, namespace, container)
	nav.To = to
	o.runPhase(ctx, report, domain.PhaseAfterLeave, namespace,
		Tasks(modules, domain.HookAfterLeave, func(m domain.Module) Call { return plainCall(m.AfterLeave, nav) }))

	if o.firstLoad.Swap(false) {
		o.logger.DebugContext(ctx, "first visit finished", "cycle", report.ID)
	}
	o.scroll.Refresh()
	o.scroll.Stop()
	o.setActive(nil)
	o.setPhase(domain.PhaseIdle)
}

// navContext builds the value handed to modules for one phase. A new value is built per phase.
func (o *Orchestrator) navContext(report *domain.CycleReport, phase domain.Phase, namespace string, container *html.Node) domain.NavigationContext {
	return domain.NavigationContext{
		CycleID:     report.ID,
		Phase:       phase,
		Container:   container,
		Namespace:   namespace,
		IsFirstLoad: o.firstLoad.Load(),
	}
}

// runPhase fans tasks out, records failures and reports phase timing.
func (o *Orchestrator) runPhase(ctx context.Context, report *domain.CycleReport, phase domain.Phase, namespace string, tasks []Task) []HookResult {
	o.setPhase(phase)
	start := time.Now()
	if o.hooks.OnPhaseStart != nil {
		o.hooks.OnPhaseStart(ctx, &domain.PhaseEvent{
			EventBase: o.eventBase(domain.EventPhaseStart, report),
			Phase:     phase,
			Namespace: namespace,
			Hooks:     len(tasks),
		})
	}

	results := RunPhaseConcurrently(ctx, tasks, o.hookTimeout)
	report.HooksRun += len(results)

	for _, res := range results {
		if res.Err == nil {
			continue
		}
		hookErr := &domain.HookError{Module: res.Module, Hook: res.Hook, Err: res.Err}
		o.logger.ErrorContext(ctx, "module hook failed",
			"cycle", report.ID,
			"phase", phase,
			"module", res.Module,
			"hook", res.Hook,
			"err", res.Err,
		)
		report.HookFailures = append(report.HookFailures, domain.HookFailure{
			Phase:  phase,
			Module: res.Module,
			Hook:   res.Hook,
			Error:  res.Err.Error(),
		})
		if o.hooks.OnHookError != nil {
			o.hooks.OnHookError(ctx, &domain.HookErrorEvent{
				EventBase: o.eventBase(domain.EventHookError, report),
				Phase:     phase,
				Module:    res.Module,
				Hook:      res.Hook,
				Err:       hookErr,
			})
		}
	}

	if o.hooks.OnPhaseEnd != nil {
		o.hooks.OnPhaseEnd(ctx, &domain.PhaseEvent{
			EventBase: o.eventBase(domain.EventPhaseEnd, report),
			Phase:     phase,
			Namespace: namespace,
			Hooks:     len(tasks),
			Duration:  time.Since(start),
		})
	}
	return results
}

// register pushes the cleanup of a settled setup hook. A cleanup returned together
// with an error is still kept so partially acquired resources get released.
func (o *Orchestrator) register(ctx context.Context, report *domain.CycleReport, res HookResult) {
	if res.Cleanup == nil {
		return
	}
	before := o.cleanups.Len()
	if !o.cleanups.PushResult(res.Module, res.Cleanup) {
		o.logger.DebugContext(ctx, "discarding unsupported cleanup",
			"cycle", report.ID,
			"module", res.Module,
			"hook", res.Hook,
		)
		return
	}
	report.CleanupsPushed += o.cleanups.Len() - before
}

func (o *Orchestrator) eventBase(t domain.EventType, report *domain.CycleReport) domain.EventBase {
	return domain.EventBase{
		Timestamp: o.now(),
		Type:      t,
		CycleID:   report.ID,
	}
}
