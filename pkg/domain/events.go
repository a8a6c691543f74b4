package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPhaseStart    EventType = "phase_start"
	EventPhaseEnd      EventType = "phase_end"
	EventHookError     EventType = "hook_error"
	EventCleanupError  EventType = "cleanup_error"
	EventCycleComplete EventType = "cycle_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	CycleID   string    `json:"cycle_id"`
}

// PhaseEvent represents the start or end of a phase.
type PhaseEvent struct {
	EventBase
	Phase     Phase         `json:"phase"`
	Namespace string        `json:"namespace"`
	Hooks     int           `json:"hooks"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// HookErrorEvent represents a module hook failure.
type HookErrorEvent struct {
	EventBase
	Phase  Phase    `json:"phase"`
	Module string   `json:"module"`
	Hook   HookKind `json:"hook"`
	Err    error    `json:"-"`
}

// CleanupErrorEvent represents a teardown failure during drain.
type CleanupErrorEvent struct {
	EventBase
	Module string `json:"module"`
	Err    error  `json:"-"`
}

// LifecycleHooks defines callbacks for orchestrator observability.
type LifecycleHooks struct {
	OnPhaseStart    func(context.Context, *PhaseEvent)
	OnPhaseEnd      func(context.Context, *PhaseEvent)
	OnHookError     func(context.Context, *HookErrorEvent)
	OnCleanupError  func(context.Context, *CleanupErrorEvent)
	OnCycleComplete func(context.Context, *CycleReport)
}

// ChainHooks fans every callback out to all non-nil hooks, in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnPhaseStart: func(ctx context.Context, e *PhaseEvent) {
			for _, h := range hooks {
				if h.OnPhaseStart != nil {
					h.OnPhaseStart(ctx, e)
				}
			}
		},
		OnPhaseEnd: func(ctx context.Context, e *PhaseEvent) {
			for _, h := range hooks {
				if h.OnPhaseEnd != nil {
					h.OnPhaseEnd(ctx, e)
				}
			}
		},
		OnHookError: func(ctx context.Context, e *HookErrorEvent) {
			for _, h := range hooks {
				if h.OnHookError != nil {
					h.OnHookError(ctx, e)
				}
			}
		},
		OnCleanupError: func(ctx context.Context, e *CleanupErrorEvent) {
			for _, h := range hooks {
				if h.OnCleanupError != nil {
					h.OnCleanupError(ctx, e)
				}
			}
		},
		OnCycleComplete: func(ctx context.Context, r *CycleReport) {
			for _, h := range hooks {
				if h.OnCycleComplete != nil {
					h.OnCycleComplete(ctx, r)
				}
			}
		},
	}
}
