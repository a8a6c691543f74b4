package memory

import (
	"context"
	"sync"

	"github.com/aretw0/threshold/pkg/domain"
)

// DefaultCapacity is the number of reports kept when no capacity is given.
const DefaultCapacity = 256

// Journal implements ports.Journal in memory, keeping the newest reports up to its capacity.
// Safe for concurrent use.
type Journal struct {
	mu       sync.RWMutex
	reports  []domain.CycleReport
	capacity int
}

// NewJournal creates a journal keeping at most capacity reports.
// A capacity <= 0 falls back to DefaultCapacity.
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Journal{capacity: capacity}
}

// Append stores a copy of report, evicting the oldest entry when full.
func (j *Journal) Append(ctx context.Context, report *domain.CycleReport) error {
	copied := *report
	copied.HookFailures = append([]domain.HookFailure(nil), report.HookFailures...)

	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.reports) == j.capacity {
		j.reports = append(j.reports[:0], j.reports[1:]...)
	}
	j.reports = append(j.reports, copied)
	return nil
}

// List returns up to limit reports, most recent first.
func (j *Journal) List(ctx context.Context, limit int) ([]domain.CycleReport, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	n := len(j.reports)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.CycleReport, 0, n)
	for i := len(j.reports) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, j.reports[i])
	}
	return out, nil
}
