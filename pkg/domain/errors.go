package domain

import (
	"errors"
	"fmt"
)

// ErrCycleInProgress is returned when a navigation starts while another cycle owns the orchestrator.
var ErrCycleInProgress = errors.New("navigation cycle in progress")

// ErrNoDestination is returned when a navigation event has no next page.
var ErrNoDestination = errors.New("navigation has no destination")

// ErrClosed is returned once the orchestrator has been closed.
var ErrClosed = errors.New("orchestrator closed")

// ErrModuleExists is returned when a module name is registered twice.
var ErrModuleExists = errors.New("module already registered")

// ErrInvalidModule is returned when a module fails registration checks.
var ErrInvalidModule = errors.New("invalid module")

// ErrUnknownModuleKind is returned when a configured module kind has no factory.
var ErrUnknownModuleKind = errors.New("unknown module kind")

// ErrSessionNotFound is returned when a visitor session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ErrPageNotFound is returned when a page source has nothing for a namespace.
var ErrPageNotFound = errors.New("page not found")

// HookError reports a failed module hook. It never aborts a cycle.
type HookError struct {
	Module string
	Hook   HookKind
	Err    error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("module %q hook %s: %v", e.Module, e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// CleanupError reports a teardown that failed while the cleanup stack was drained.
type CleanupError struct {
	Module string
	// Position is the stack index of the failed teardown (0 is the oldest entry).
	Position int
	Err      error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleanup %d of module %q: %v", e.Position, e.Module, e.Err)
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}

// PanicError wraps a recovered panic value.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
