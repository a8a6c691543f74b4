package runner

import (
	"context"

	"github.com/aretw0/threshold/pkg/domain"
)

// IOHandler defines how the runner talks to its operator.
// This allows switching between text (CLI) and JSON Lines (structured) modes.
type IOHandler interface {
	// Input blocks until the next command arrives. io.EOF ends the session.
	Input(ctx context.Context) (Command, error)

	// Report presents the outcome of a navigation cycle.
	Report(ctx context.Context, report *domain.CycleReport) error

	// Snapshot presents the orchestrator state.
	Snapshot(ctx context.Context, snap domain.Snapshot) error

	// Journal presents stored cycle reports, most recent first.
	Journal(ctx context.Context, reports []domain.CycleReport) error

	// SystemOutput presents a meta-message such as help text or a rejected command.
	SystemOutput(ctx context.Context, msg string) error
}

// ReportRenderer turns a report into display text, for example styled terminal output.
type ReportRenderer func(*domain.CycleReport) (string, error)
