package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/threshold/pkg/domain"
)

// Call runs one module hook for a phase.
type Call func(ctx context.Context) (domain.Cleanup, error)

// Task is a scheduled hook invocation.
type Task struct {
	Module string
	Hook   domain.HookKind
	Call   Call
}

// HookResult is the settled outcome of a Task.
type HookResult struct {
	Module  string
	Hook    domain.HookKind
	Cleanup domain.Cleanup
	Err     error
}

// Selector maps a module to its Call for a phase. A nil Call means the module skips the phase.
type Selector func(m domain.Module) Call

// Tasks builds the task list for modules, preserving their order and skipping missing hooks.
func Tasks(modules []domain.Module, hook domain.HookKind, sel Selector) []Task {
	tasks := make([]Task, 0, len(modules))
	for _, m := range modules {
		call := sel(m)
		if call == nil {
			continue
		}
		tasks = append(tasks, Task{Module: m.Name, Hook: hook, Call: call})
	}
	return tasks
}

// RunPhaseConcurrently starts every task before waiting on any of them and returns
// once all have settled. Results are index-aligned with tasks. A failing or panicking
// task never cancels its siblings. A positive timeout bounds each task's context.
func RunPhaseConcurrently(ctx context.Context, tasks []Task, timeout time.Duration) []HookResult {
	results := make([]HookResult, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		results[i] = HookResult{Module: task.Module, Hook: task.Hook}
		wg.Go(func() {
			results[i].Cleanup, results[i].Err = invoke(ctx, task.Call, timeout)
		})
	}
	wg.Wait()
	return results
}

func invoke(ctx context.Context, call Call, timeout time.Duration) (cleanup domain.Cleanup, err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			cleanup, err = nil, &domain.PanicError{Value: r}
		}
	}()
	return call(ctx)
}

func setupCall(hook domain.SetupHook, nav domain.NavigationContext) Call {
	if hook == nil {
		return nil
	}
	return func(ctx context.Context) (domain.Cleanup, error) {
		return hook(ctx, nav)
	}
}

func plainCall(hook domain.Hook, nav domain.NavigationContext) Call {
	if hook == nil {
		return nil
	}
	return func(ctx context.Context) (domain.Cleanup, error) {
		return nil, hook(ctx, nav)
	}
}

func dataCall(hook domain.DataHook, event domain.NavigationEvent) Call {
	if hook == nil {
		return nil
	}
	return func(ctx context.Context) (domain.Cleanup, error) {
		return nil, hook(ctx, event)
	}
}
