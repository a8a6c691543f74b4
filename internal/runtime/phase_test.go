package runtime_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/threshold/internal/runtime"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPhaseConcurrently_StartsAllBeforeAwaiting(t *testing.T) {
	const n = 5
	var started atomic.Int32
	allStarted := make(chan struct{})

	tasks := make([]runtime.Task, n)
	for i := range tasks {
		tasks[i] = runtime.Task{
			Module: "m",
			Hook:   domain.HookBeforeEnter,
			Call: func(ctx context.Context) (domain.Cleanup, error) {
				if started.Add(1) == n {
					close(allStarted)
				}
				// Every task waits for its siblings; a sequential runner would deadlock here.
				select {
				case <-allStarted:
					return nil, nil
				case <-time.After(time.Second):
					return nil, errors.New("siblings never started")
				}
			},
		}
	}

	results := runtime.RunPhaseConcurrently(context.Background(), tasks, 0)
	require.Len(t, results, n)
	for _, res := range results {
		assert.NoError(t, res.Err)
	}
}

func TestRunPhaseConcurrently_SettlesFailuresIndependently(t *testing.T) {
	tasks := []runtime.Task{
		{Module: "fails", Hook: domain.HookAfterEnter, Call: func(context.Context) (domain.Cleanup, error) {
			return nil, errors.New("boom")
		}},
		{Module: "panics", Hook: domain.HookAfterEnter, Call: func(context.Context) (domain.Cleanup, error) {
			panic("kaboom")
		}},
		{Module: "works", Hook: domain.HookAfterEnter, Call: func(context.Context) (domain.Cleanup, error) {
			return "cleanup", nil
		}},
	}

	results := runtime.RunPhaseConcurrently(context.Background(), tasks, 0)
	require.Len(t, results, 3)

	assert.Equal(t, "fails", results[0].Module)
	assert.EqualError(t, results[0].Err, "boom")

	var panicErr *domain.PanicError
	require.ErrorAs(t, results[1].Err, &panicErr)
	assert.Equal(t, "kaboom", panicErr.Value)

	assert.Equal(t, "works", results[2].Module)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, "cleanup", results[2].Cleanup)
}

func TestRunPhaseConcurrently_Timeout(t *testing.T) {
	tasks := []runtime.Task{{
		Module: "slow",
		Hook:   domain.HookBeforeLeave,
		Call: func(ctx context.Context) (domain.Cleanup, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}}

	results := runtime.RunPhaseConcurrently(context.Background(), tasks, 5*time.Millisecond)
	assert.ErrorIs(t, results[0].Err, context.DeadlineExceeded)
}

func TestTasks_SkipsMissingHooks(t *testing.T) {
	modules := []domain.Module{
		{Name: "with", AfterLeave: func(context.Context, domain.NavigationContext) error { return nil }},
		{Name: "without", BeforeLeave: func(context.Context, domain.NavigationContext) error { return nil }},
	}

	tasks := runtime.Tasks(modules, domain.HookAfterLeave, func(m domain.Module) runtime.Call {
		if m.AfterLeave == nil {
			return nil
		}
		return func(ctx context.Context) (domain.Cleanup, error) {
			return nil, m.AfterLeave(ctx, domain.NavigationContext{})
		}
	})

	require.Len(t, tasks, 1)
	assert.Equal(t, "with", tasks[0].Module)
	assert.Equal(t, domain.HookAfterLeave, tasks[0].Hook)
}
