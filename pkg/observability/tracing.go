package observability

import (
	"context"
	"sync"

	"github.com/aretw0/threshold/pkg/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type cycleSpans struct {
	ctx   context.Context
	cycle trace.Span
	phase trace.Span
}

// Tracer records one span per cycle with a child span per phase.
type Tracer struct {
	tracer trace.Tracer

	mu     sync.Mutex
	cycles map[string]*cycleSpans
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(tracer trace.Tracer) *Tracer {
	return &Tracer{tracer: tracer, cycles: make(map[string]*cycleSpans)}
}

// Open returns the number of cycles whose span has not ended yet.
func (t *Tracer) Open() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.cycles)
}

// Hooks returns the callbacks that open and close spans.
func (t *Tracer) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseStart: func(ctx context.Context, e *domain.PhaseEvent) {
			t.mu.Lock()
			defer t.mu.Unlock()
			spans, ok := t.cycles[e.CycleID]
			if !ok {
				cctx, span := t.tracer.Start(ctx, "threshold.cycle",
					trace.WithAttributes(attribute.String("threshold.cycle_id", e.CycleID)))
				spans = &cycleSpans{ctx: cctx, cycle: span}
				t.cycles[e.CycleID] = spans
			}
			_, spans.phase = t.tracer.Start(spans.ctx, "threshold.phase."+string(e.Phase),
				trace.WithAttributes(
					attribute.String("threshold.namespace", e.Namespace),
					attribute.Int("threshold.hooks", e.Hooks),
				))
		},
		OnPhaseEnd: func(_ context.Context, e *domain.PhaseEvent) {
			t.mu.Lock()
			defer t.mu.Unlock()
			if spans, ok := t.cycles[e.CycleID]; ok && spans.phase != nil {
				spans.phase.End()
				spans.phase = nil
			}
		},
		OnHookError: func(_ context.Context, e *domain.HookErrorEvent) {
			t.mu.Lock()
			defer t.mu.Unlock()
			if spans, ok := t.cycles[e.CycleID]; ok && spans.phase != nil {
				spans.phase.RecordError(e.Err, trace.WithAttributes(attribute.String("threshold.module", e.Module)))
				spans.phase.SetStatus(codes.Error, e.Module)
			}
		},
		OnCleanupError: func(_ context.Context, e *domain.CleanupErrorEvent) {
			t.mu.Lock()
			defer t.mu.Unlock()
			if spans, ok := t.cycles[e.CycleID]; ok {
				spans.cycle.RecordError(e.Err, trace.WithAttributes(attribute.String("threshold.module", e.Module)))
			}
		},
		OnCycleComplete: func(_ context.Context, r *domain.CycleReport) {
			t.mu.Lock()
			spans, ok := t.cycles[r.ID]
			delete(t.cycles, r.ID)
			t.mu.Unlock()
			if !ok {
				return
			}
			if spans.phase != nil {
				spans.phase.End()
			}
			spans.cycle.SetAttributes(
				attribute.String("threshold.kind", string(r.Kind)),
				attribute.String("threshold.from", r.From),
				attribute.String("threshold.to", r.To),
				attribute.Int("threshold.hook_failures", len(r.HookFailures)),
				attribute.Int("threshold.cleanup_failures", r.CleanupFailures),
			)
			if r.Failed() {
				spans.cycle.SetStatus(codes.Error, "cycle had failures")
			}
			spans.cycle.End()
		},
	}
}
