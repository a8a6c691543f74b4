package observability

import (
	"context"

	"github.com/aretw0/threshold/pkg/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterHooks records cycle counts and phase durations on an OpenTelemetry meter,
// for deployments that export through OTLP instead of scraping.
func MeterHooks(meter metric.Meter) (domain.LifecycleHooks, error) {
	cycles, err := meter.Int64Counter("threshold.cycles",
		metric.WithDescription("Navigation cycles completed."))
	if err != nil {
		return domain.LifecycleHooks{}, err
	}
	phases, err := meter.Float64Histogram("threshold.phase.duration",
		metric.WithDescription("Time spent running the hooks of a phase."),
		metric.WithUnit("s"))
	if err != nil {
		return domain.LifecycleHooks{}, err
	}
	failures, err := meter.Int64Counter("threshold.hook.failures",
		metric.WithDescription("Module hook failures."))
	if err != nil {
		return domain.LifecycleHooks{}, err
	}

	return domain.LifecycleHooks{
		OnPhaseEnd: func(ctx context.Context, e *domain.PhaseEvent) {
			phases.Record(ctx, e.Duration.Seconds(), metric.WithAttributes(attribute.String("phase", string(e.Phase))))
		},
		OnHookError: func(ctx context.Context, e *domain.HookErrorEvent) {
			failures.Add(ctx, 1, metric.WithAttributes(
				attribute.String("phase", string(e.Phase)),
				attribute.String("module", e.Module),
			))
		},
		OnCycleComplete: func(ctx context.Context, r *domain.CycleReport) {
			cycles.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(r.Kind))))
		},
	}, nil
}
