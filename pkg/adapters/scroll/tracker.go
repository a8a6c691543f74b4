package scroll

import (
	"io"
	"log/slog"
	"sync"
)

// Stats is a point-in-time view of a Tracker.
type Stats struct {
	Running   bool `json:"running"`
	Position  int  `json:"position"`
	Starts    int  `json:"starts"`
	Stops     int  `json:"stops"`
	Refreshes int  `json:"refreshes"`
	Jumps     int  `json:"jumps"`
}

// Tracker is a headless scroller. It keeps the state a smooth-scroll engine would
// hold between navigations so the cycle can be inspected without a browser.
type Tracker struct {
	mu     sync.Mutex
	stats  Stats
	logger *slog.Logger
}

// NewTracker creates a stopped tracker. A nil logger disables logging.
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tracker{logger: logger}
}

// Start runs the scroller. Starting a running tracker is a no-op.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stats.Running {
		return
	}
	t.stats.Running = true
	t.stats.Starts++
	t.logger.Debug("scroll started")
}

// Stop halts the scroller.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.stats.Running {
		return
	}
	t.stats.Running = false
	t.stats.Stops++
	t.logger.Debug("scroll stopped")
}

// Refresh recomputes scroll triggers.
func (t *Tracker) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Refreshes++
}

// JumpToTop resets the position. Without a running scroller there is nothing to move.
func (t *Tracker) JumpToTop(immediate bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.stats.Running {
		return
	}
	t.stats.Position = 0
	t.stats.Jumps++
	t.logger.Debug("scroll jumped to top", "immediate", immediate)
}

// ScrollTo moves the position, as a user would between navigations.
func (t *Tracker) ScrollTo(position int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if position < 0 {
		position = 0
	}
	t.stats.Position = position
}

// Stats returns the current counters.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Noop ignores every call.
type Noop struct{}

func (Noop) Start()         {}
func (Noop) Stop()          {}
func (Noop) Refresh()       {}
func (Noop) JumpToTop(bool) {}
