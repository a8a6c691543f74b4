package ports

// ScrollSync keeps scroll position and scroll-driven triggers consistent across navigations.
type ScrollSync interface {
	// Start prepares the scroller. Calling it while running is a no-op.
	Start()
	// Stop tears the scroller down.
	Stop()
	// Refresh recomputes scroll-driven triggers after the DOM changed.
	Refresh()
	// JumpToTop scrolls to the top of the page.
	JumpToTop(immediate bool)
}
