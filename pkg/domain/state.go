package domain

// Snapshot is a read-only view of the orchestrator state.
type Snapshot struct {
	Phase           Phase  `json:"phase"`
	ActiveNamespace string `json:"active_namespace,omitempty"`
	IsFirstLoad     bool   `json:"is_first_load"`
	PendingCleanups int    `json:"pending_cleanups"`
	Cycles          int    `json:"cycles"`
	Closed          bool   `json:"closed"`
}
