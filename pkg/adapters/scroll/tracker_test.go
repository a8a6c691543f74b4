package scroll_test

import (
	"testing"

	"github.com/aretw0/threshold/pkg/adapters/scroll"
	"github.com/aretw0/threshold/pkg/ports"
	"github.com/stretchr/testify/assert"
)

var (
	_ ports.ScrollSync = (*scroll.Tracker)(nil)
	_ ports.ScrollSync = scroll.Noop{}
)

func TestTracker_StartIsIdempotent(t *testing.T) {
	tr := scroll.NewTracker(nil)
	tr.Start()
	tr.Start()
	tr.Stop()
	tr.Stop()

	stats := tr.Stats()
	assert.Equal(t, 1, stats.Starts)
	assert.Equal(t, 1, stats.Stops)
	assert.False(t, stats.Running)
}

func TestTracker_JumpToTop(t *testing.T) {
	tr := scroll.NewTracker(nil)
	tr.ScrollTo(420)
	tr.JumpToTop(true)
	assert.Equal(t, 420, tr.Stats().Position, "a stopped scroller does not move")

	tr.Start()
	tr.JumpToTop(true)
	tr.Refresh()

	stats := tr.Stats()
	assert.Zero(t, stats.Position)
	assert.Equal(t, 1, stats.Jumps)
	assert.Equal(t, 1, stats.Refreshes)
}
