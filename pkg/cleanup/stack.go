package cleanup

import (
	"fmt"
	"sync"

	"github.com/aretw0/threshold/pkg/domain"
)

type entry struct {
	module   string
	teardown domain.Teardown
}

// Stack holds normalized teardowns until the next drain.
// It is safe for concurrent use, but the orchestrator is its only writer.
type Stack struct {
	mu      sync.Mutex
	entries []entry
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push registers a teardown on behalf of module. Nil teardowns are ignored.
func (s *Stack) Push(module string, teardown domain.Teardown) {
	if teardown == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{module: module, teardown: teardown})
}

// PushResult normalizes result and pushes it.
// It reports false when result had an unsupported shape and was discarded.
func (s *Stack) PushResult(module string, result domain.Cleanup) bool {
	teardown, ok := Normalize(result)
	if !ok {
		return false
	}
	s.Push(module, teardown)
	return true
}

// Len returns the number of pending teardowns.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// DrainResult summarizes a drain.
type DrainResult struct {
	Ran      int
	Failures []*domain.CleanupError
}

// Drain runs every pending teardown, newest first, and leaves the stack empty.
// Errors and panics are collected per teardown; they never stop the drain.
func (s *Stack) Drain() DrainResult {
	s.mu.Lock()
	pending := s.entries
	s.entries = nil
	s.mu.Unlock()

	var res DrainResult
	for i := len(pending) - 1; i >= 0; i-- {
		e := pending[i]
		res.Ran++
		if err := run(e.teardown); err != nil {
			res.Failures = append(res.Failures, &domain.CleanupError{
				Module:   e.module,
				Position: i,
				Err:      err,
			})
		}
	}
	return res
}

func run(teardown domain.Teardown) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.PanicError{Value: r}
		}
	}()
	if err := teardown(); err != nil {
		return fmt.Errorf("teardown: %w", err)
	}
	return nil
}
