package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/aretw0/threshold/internal/runtime"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/observability"
	"github.com/aretw0/threshold/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/net/html"
)

// navigateTwice runs home (first load) then about through a module that fails
// once in AfterEnter and once in its cleanup.
func navigateTwice(t *testing.T, hooks domain.LifecycleHooks) {
	t.Helper()
	reg := registry.NewRegistry()
	reg.MustRegister(domain.Module{
		Name:       "broken",
		Namespaces: domain.NS("home"),
		BeforeEnter: func(context.Context, domain.NavigationContext) (domain.Cleanup, error) {
			return func() error { return errors.New("teardown failed") }, nil
		},
		AfterEnter: func(context.Context, domain.NavigationContext) error {
			return errors.New("after enter failed")
		},
	})
	orch := runtime.NewOrchestrator(reg, runtime.WithLifecycleHooks(hooks))

	ctx := context.Background()
	for _, ns := range []string{"home", "about"} {
		_, err := orch.Navigate(ctx, domain.NavigationEvent{
			Next: &domain.Page{Namespace: ns, Container: &html.Node{Type: html.ElementNode, Data: "main"}},
		})
		require.NoError(t, err)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	navigateTwice(t, m.Hooks())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cycles.WithLabelValues("first_load", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cycles.WithLabelValues("transition", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HookFailures.WithLabelValues("after_enter", "broken")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CleanupsRun))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CleanupFailures))
	assert.Equal(t, 5, testutil.CollectAndCount(m.PhaseDuration))
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	second, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	second.CleanupsRun.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(first.CleanupsRun))
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	navigateTwice(t, observability.LogHooks(logger))

	out := buf.String()
	assert.Contains(t, out, `"msg":"phase_start"`)
	assert.Contains(t, out, `"msg":"hook_error"`)
	assert.Contains(t, out, `"msg":"cleanup_error"`)
	assert.Contains(t, out, "teardown failed")
	assert.Contains(t, out, `"msg":"cycle_complete"`)
}

type recordingTracer struct {
	noop.Tracer

	mu      sync.Mutex
	started []string
	ended   int
	errors  int
}

func (r *recordingTracer) Start(ctx context.Context, name string, _ ...trace.SpanStartOption) (context.Context, trace.Span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, name)
	return ctx, &recordingSpan{tracer: r}
}

type recordingSpan struct {
	noop.Span
	tracer *recordingTracer
}

func (s *recordingSpan) End(...trace.SpanEndOption) {
	s.tracer.mu.Lock()
	defer s.tracer.mu.Unlock()
	s.tracer.ended++
}

func (s *recordingSpan) RecordError(error, ...trace.EventOption) {
	s.tracer.mu.Lock()
	defer s.tracer.mu.Unlock()
	s.tracer.errors++
}

func TestTracer(t *testing.T) {
	rec := &recordingTracer{}
	tracer := observability.NewTracer(rec)

	navigateTwice(t, tracer.Hooks())

	assert.Equal(t, 0, tracer.Open())
	require.Len(t, rec.started, 10, "two cycle spans and eight phase spans")
	assert.Equal(t, "threshold.cycle", rec.started[0])
	assert.Equal(t, "threshold.phase.before_enter", rec.started[1])
	assert.Equal(t, "threshold.phase.before_leave", rec.started[5])
	assert.Equal(t, 10, rec.ended)
	assert.Equal(t, 2, rec.errors)
}

func TestMeterHooks(t *testing.T) {
	hooks, err := observability.MeterHooks(metricnoop.NewMeterProvider().Meter("threshold"))
	require.NoError(t, err)
	assert.NotNil(t, hooks.OnPhaseEnd)
	assert.NotNil(t, hooks.OnCycleComplete)

	navigateTwice(t, hooks)
}

func TestChainedHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	rec := &recordingTracer{}
	tracer := observability.NewTracer(rec)

	navigateTwice(t, domain.ChainHooks(m.Hooks(), tracer.Hooks()))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CleanupFailures))
	assert.Equal(t, 10, rec.ended)
}
