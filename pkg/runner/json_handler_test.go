package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Input(t *testing.T) {
	in := strings.Join([]string{
		`{"command":"navigate","args":["about"]}`,
		`"status"`,
		`{"command":"go"}`,
		`journal 2`,
	}, "\n")
	out := &bytes.Buffer{}
	handler := NewJSONHandler(strings.NewReader(in), out)
	ctx := context.Background()

	cmd, err := handler.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, Command{Name: CmdNavigate, Args: []string{"about"}}, cmd)

	cmd, err = handler.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, CmdStatus, cmd.Name)

	cmd, err = handler.Input(ctx)
	require.NoError(t, err, "the invalid object is answered and skipped")
	assert.Equal(t, CmdJournal, cmd.Name)
	assert.Equal(t, 2, cmd.Limit(10))

	var ev Event
	require.NoError(t, json.Unmarshal(out.Bytes(), &ev))
	assert.Equal(t, "error", ev.Type)

	_, err = handler.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	handler := NewJSONHandler(strings.NewReader(""), out)
	ctx := context.Background()

	require.NoError(t, handler.Report(ctx, &domain.CycleReport{ID: "c1", Kind: domain.CycleFirstLoad, To: "home"}))
	require.NoError(t, handler.Snapshot(ctx, domain.Snapshot{Phase: domain.PhaseActive, ActiveNamespace: "home"}))
	require.NoError(t, handler.Journal(ctx, nil))
	require.NoError(t, handler.SystemOutput(ctx, "hello"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)

	var report struct {
		Type string             `json:"type"`
		Data domain.CycleReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &report))
	assert.Equal(t, "report", report.Type)
	assert.Equal(t, "home", report.Data.To)

	assert.JSONEq(t, `{"type":"journal","data":[]}`, lines[2])
	assert.JSONEq(t, `{"type":"system","data":"hello"}`, lines[3])
}
