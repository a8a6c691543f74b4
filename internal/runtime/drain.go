package runtime

import (
	"context"

	"github.com/aretw0/threshold/pkg/domain"
)

// drain unwinds the cleanup stack, newest teardown first.
// Failures are reported but never stop the unwind, and the stack is always left empty.
func (o *Orchestrator) drain(ctx context.Context, report *domain.CycleReport) {
	o.setPhase(domain.PhaseDrain)
	pending := o.cleanups.Len()
	if pending == 0 {
		return
	}
	o.logger.DebugContext(ctx, "draining cleanups", "cycle", report.ID, "pending", pending)

	res := o.cleanups.Drain()
	report.CleanupsRun += res.Ran
	for _, failure := range res.Failures {
		o.logger.ErrorContext(ctx, "cleanup failed",
			"cycle", report.ID,
			"module", failure.Module,
			"position", failure.Position,
			"err", failure.Err,
		)
		report.CleanupFailures++
		if o.hooks.OnCleanupError != nil {
			o.hooks.OnCleanupError(ctx, &domain.CleanupErrorEvent{
				EventBase: o.eventBase(domain.EventCleanupError, report),
				Module:    failure.Module,
				Err:       failure,
			})
		}
	}
}
