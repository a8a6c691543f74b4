package ports

import (
	"context"

	"github.com/aretw0/threshold/pkg/domain"
)

// Journal persists the reports of completed navigation cycles.
type Journal interface {
	// Append stores a report.
	Append(ctx context.Context, report *domain.CycleReport) error

	// List returns up to limit reports, most recent first. A limit <= 0 returns everything kept.
	List(ctx context.Context, limit int) ([]domain.CycleReport, error)
}
