package domain

import "time"

// CycleKind classifies a navigation cycle.
type CycleKind string

const (
	CycleFirstLoad  CycleKind = "first_load"
	CycleTransition CycleKind = "transition"
	CycleClose      CycleKind = "close"
)

// HookFailure is the serializable form of a HookError.
type HookFailure struct {
	Phase  Phase    `json:"phase"`
	Module string   `json:"module"`
	Hook   HookKind `json:"hook"`
	Error  string   `json:"error"`
}

// CycleReport summarizes one navigation cycle.
type CycleReport struct {
	ID              string        `json:"id"`
	Kind            CycleKind     `json:"kind"`
	From            string        `json:"from,omitempty"`
	To              string        `json:"to,omitempty"`
	FirstLoad       bool          `json:"first_load"`
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"duration"`
	HooksRun        int           `json:"hooks_run"`
	HookFailures    []HookFailure `json:"hook_failures,omitempty"`
	CleanupsPushed  int           `json:"cleanups_pushed"`
	CleanupsRun     int           `json:"cleanups_run"`
	CleanupFailures int           `json:"cleanup_failures"`
}

// Failed reports whether any hook or cleanup failed during the cycle.
func (r *CycleReport) Failed() bool {
	return len(r.HookFailures) > 0 || r.CleanupFailures > 0
}
