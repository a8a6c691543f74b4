package domain

// Phase identifies a step of the navigation cycle.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseBeforeEnter Phase = "before_enter"
	PhaseEnterData   Phase = "enter_data"
	PhaseAfterEnter  Phase = "after_enter"
	PhaseActive      Phase = "active"
	PhaseBeforeLeave Phase = "before_leave"
	PhaseLeaveEffect Phase = "leave_effect"
	PhaseDrain       Phase = "drain"
	PhaseAfterLeave  Phase = "after_leave"
	PhaseClosed      Phase = "closed"
)

// HookKind names a module hook.
type HookKind string

const (
	HookBeforeEnter HookKind = "before_enter"
	HookOnce        HookKind = "once"
	HookEnterData   HookKind = "enter_data"
	HookOnceData    HookKind = "once_data"
	HookAfterEnter  HookKind = "after_enter"
	HookBeforeLeave HookKind = "before_leave"
	HookAfterLeave  HookKind = "after_leave"
)
