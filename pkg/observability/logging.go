package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/threshold/pkg/domain"
)

// LogHooks writes one structured record per lifecycle event.
// Phase boundaries go to debug; failures to warn; cycle completion to info.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseStart: func(ctx context.Context, e *domain.PhaseEvent) {
			logger.DebugContext(ctx, "phase_start",
				"cycle", e.CycleID,
				"phase", e.Phase,
				"namespace", e.Namespace,
				"hooks", e.Hooks,
			)
		},
		OnPhaseEnd: func(ctx context.Context, e *domain.PhaseEvent) {
			logger.DebugContext(ctx, "phase_end",
				"cycle", e.CycleID,
				"phase", e.Phase,
				"duration", e.Duration,
			)
		},
		OnHookError: func(ctx context.Context, e *domain.HookErrorEvent) {
			logger.WarnContext(ctx, "hook_error",
				"cycle", e.CycleID,
				"phase", e.Phase,
				"module", e.Module,
				"hook", e.Hook,
				"error", e.Err,
			)
		},
		OnCleanupError: func(ctx context.Context, e *domain.CleanupErrorEvent) {
			logger.WarnContext(ctx, "cleanup_error",
				"cycle", e.CycleID,
				"module", e.Module,
				"error", e.Err,
			)
		},
		OnCycleComplete: func(ctx context.Context, r *domain.CycleReport) {
			logger.InfoContext(ctx, "cycle_complete",
				"cycle", r.ID,
				"kind", r.Kind,
				"from", r.From,
				"to", r.To,
				"hooks", r.HooksRun,
				"hook_failures", len(r.HookFailures),
				"cleanups_run", r.CleanupsRun,
				"cleanup_failures", r.CleanupFailures,
				"duration", r.Duration,
			)
		},
	}
}
