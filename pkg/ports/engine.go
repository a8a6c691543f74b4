package ports

import (
	"context"

	"github.com/aretw0/threshold/pkg/domain"
)

// Navigator is the orchestrator surface used by driving adapters.
type Navigator interface {
	// Navigate runs one full navigation cycle towards event.Next.
	Navigate(ctx context.Context, event domain.NavigationEvent) (*domain.CycleReport, error)

	// Close runs the leave cycle of the active page and refuses further navigations.
	Close(ctx context.Context) (*domain.CycleReport, error)

	// Snapshot returns the current orchestrator state.
	Snapshot() domain.Snapshot
}
