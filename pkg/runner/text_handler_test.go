package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Input(t *testing.T) {
	out := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("\n  go about  \nwat now\nstatus\n"), out)
	ctx := context.Background()

	cmd, err := handler.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, Command{Name: CmdNavigate, Args: []string{"about"}}, cmd)

	cmd, err = handler.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, CmdStatus, cmd.Name)
	assert.Contains(t, out.String(), `Error: unknown command "wat"`)

	_, err = handler.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_InputHonorsContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	handler := NewTextHandler(pr, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := handler.Input(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTextHandler_Report(t *testing.T) {
	out := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), out)

	err := handler.Report(context.Background(), &domain.CycleReport{
		Kind:           domain.CycleTransition,
		From:           "home",
		To:             "about",
		HooksRun:       4,
		CleanupsPushed: 2,
		CleanupsRun:    1,
		HookFailures:   []domain.HookFailure{{Module: "reveal", Hook: domain.HookAfterEnter, Error: "boom"}},
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[transition] home -> about hooks=4 cleanups=1/2 failures=1")
	assert.Contains(t, out.String(), "! reveal.after_enter: boom")
}

func TestTextHandler_Renderer(t *testing.T) {
	out := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), out, WithTextHandlerRenderer(func(r *domain.CycleReport) (string, error) {
		return "Rendered: " + r.To + "\n\n", nil
	}))

	require.NoError(t, handler.Report(context.Background(), &domain.CycleReport{To: "about"}))
	assert.Equal(t, "Rendered: about\n", out.String())
}

func TestTextHandler_Snapshot(t *testing.T) {
	out := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), out)

	require.NoError(t, handler.Snapshot(context.Background(), domain.Snapshot{Phase: domain.PhaseIdle, IsFirstLoad: true}))
	assert.Equal(t, "phase=idle active=- first_load=true pending_cleanups=0 cycles=0 closed=false\n", out.String())
}
