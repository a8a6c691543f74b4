package memory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/threshold/pkg/adapters/memory"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryJournal_Contract(t *testing.T) {
	ports.RunJournalContract(t, memory.NewJournal(0))
}

func TestMemoryJournal_EvictsOldest(t *testing.T) {
	journal := memory.NewJournal(2)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, journal.Append(ctx, &domain.CycleReport{ID: fmt.Sprintf("c%d", i)}))
	}

	reports, err := journal.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "c2", reports[0].ID)
	assert.Equal(t, "c1", reports[1].ID)
}

func TestMemoryJournal_StoresCopies(t *testing.T) {
	journal := memory.NewJournal(0)
	ctx := context.Background()
	report := &domain.CycleReport{
		ID:           "c0",
		HookFailures: []domain.HookFailure{{Module: "a"}},
	}
	require.NoError(t, journal.Append(ctx, report))

	report.ID = "mutated"
	report.HookFailures[0].Module = "mutated"

	reports, err := journal.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "c0", reports[0].ID)
	assert.Equal(t, "a", reports[0].HookFailures[0].Module)
}
