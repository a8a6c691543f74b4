package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunJournalContract runs a suite of tests to verify that a Journal implementation
// adheres to the defined interface contract. The journal must start empty.
func RunJournalContract(t *testing.T, journal Journal) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Append and List", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			err := journal.Append(ctx, &domain.CycleReport{
				ID:        fmt.Sprintf("cycle-%d", i),
				Kind:      domain.CycleTransition,
				From:      "home",
				To:        "about",
				StartedAt: base.Add(time.Duration(i) * time.Second),
				Duration:  time.Duration(i+1) * time.Millisecond,
			})
			require.NoError(t, err, "Append should not return error")
		}

		reports, err := journal.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, reports, 3)
		assert.Equal(t, "cycle-2", reports[0].ID, "List should return most recent first")
		assert.Equal(t, "cycle-0", reports[2].ID)
		assert.Equal(t, "about", reports[0].To)
		assert.Equal(t, 3*time.Millisecond, reports[0].Duration)
	})

	t.Run("List with limit", func(t *testing.T) {
		reports, err := journal.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, "cycle-2", reports[0].ID)
		assert.Equal(t, "cycle-1", reports[1].ID)
	})

	t.Run("Failures survive", func(t *testing.T) {
		err := journal.Append(ctx, &domain.CycleReport{
			ID:   "cycle-failed",
			Kind: domain.CycleTransition,
			HookFailures: []domain.HookFailure{
				{Phase: domain.PhaseBeforeEnter, Module: "broken", Hook: domain.HookBeforeEnter, Error: "boom"},
			},
			CleanupFailures: 1,
		})
		require.NoError(t, err)

		reports, err := journal.List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.True(t, reports[0].Failed())
		assert.Equal(t, "broken", reports[0].HookFailures[0].Module)
	})
}
