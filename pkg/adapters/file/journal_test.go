package file_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/threshold/pkg/adapters/file"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileJournal_Contract(t *testing.T) {
	ports.RunJournalContract(t, file.NewJournal(filepath.Join(t.TempDir(), "journal.jsonl")))
}

func TestFileJournal_ListOnMissingFile(t *testing.T) {
	journal := file.NewJournal(filepath.Join(t.TempDir(), "nested", "journal.jsonl"))
	reports, err := journal.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestFileJournal_Compacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	journal := file.NewJournal(path, file.WithMaxEntries(3))
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		require.NoError(t, journal.Append(ctx, &domain.CycleReport{ID: fmt.Sprintf("c%d", i)}))
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "\n"), "compacted at the sixth append, then one more line")

	reports, err := journal.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "c6", reports[0].ID)
	assert.Equal(t, "c4", reports[2].ID)
}

func TestFileJournal_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"id\":\"c0\"}\nnot json\n\n{\"id\":\"c1\"}\n"), 0o644))

	reports, err := file.NewJournal(path).List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "c1", reports[0].ID)
}

func TestFileJournal_ConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			journal := file.NewJournal(path)
			for i := 0; i < 10; i++ {
				assert.NoError(t, journal.Append(ctx, &domain.CycleReport{ID: fmt.Sprintf("w%d-%d", w, i)}))
			}
		}(w)
	}
	wg.Wait()

	reports, err := file.NewJournal(path).List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, reports, 40)
}
