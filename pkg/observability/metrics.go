package observability

import (
	"context"
	"errors"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by the orchestrator.
type Metrics struct {
	Cycles          *prometheus.CounterVec
	PhaseDuration   *prometheus.HistogramVec
	HookFailures    *prometheus.CounterVec
	CleanupsRun     prometheus.Counter
	CleanupFailures prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
// Collectors already registered on reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "threshold_cycles_total",
			Help: "Navigation cycles completed, by kind and outcome.",
		}, []string{"kind", "failed"}),
		PhaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "threshold_phase_duration_seconds",
			Help:    "Time spent running the hooks of a phase.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"phase"}),
		HookFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "threshold_hook_failures_total",
			Help: "Module hook failures, by phase and module.",
		}, []string{"phase", "module"}),
		CleanupsRun: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "threshold_cleanups_run_total",
			Help: "Cleanups executed while draining.",
		}),
		CleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "threshold_cleanup_failures_total",
			Help: "Cleanups that failed while draining.",
		}),
	}

	var err error
	if m.Cycles, err = register(reg, m.Cycles); err != nil {
		return nil, err
	}
	if m.PhaseDuration, err = register(reg, m.PhaseDuration); err != nil {
		return nil, err
	}
	if m.HookFailures, err = register(reg, m.HookFailures); err != nil {
		return nil, err
	}
	if m.CleanupsRun, err = register(reg, m.CleanupsRun); err != nil {
		return nil, err
	}
	if m.CleanupFailures, err = register(reg, m.CleanupFailures); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Hooks returns the callbacks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseEnd: func(_ context.Context, e *domain.PhaseEvent) {
			m.PhaseDuration.WithLabelValues(string(e.Phase)).Observe(e.Duration.Seconds())
		},
		OnHookError: func(_ context.Context, e *domain.HookErrorEvent) {
			m.HookFailures.WithLabelValues(string(e.Phase), e.Module).Inc()
		},
		OnCleanupError: func(_ context.Context, _ *domain.CleanupErrorEvent) {
			m.CleanupFailures.Inc()
		},
		OnCycleComplete: func(_ context.Context, r *domain.CycleReport) {
			failed := "false"
			if r.Failed() {
				failed = "true"
			}
			m.Cycles.WithLabelValues(string(r.Kind), failed).Inc()
			m.CleanupsRun.Add(float64(r.CleanupsRun))
		},
	}
}
