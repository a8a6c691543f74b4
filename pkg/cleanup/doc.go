// Package cleanup turns the values returned by module setup hooks into a single
// canonical teardown, keeps them on a last-in-first-out stack and drains that
// stack exactly once per leave cycle.
package cleanup
