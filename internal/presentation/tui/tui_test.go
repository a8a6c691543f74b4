package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestReportMarkdown(t *testing.T) {
	md := ReportMarkdown(&domain.CycleReport{
		Kind:     domain.CycleTransition,
		From:     "home",
		To:       "about",
		HooksRun: 4,
		HookFailures: []domain.HookFailure{
			{Phase: domain.PhaseAfterEnter, Module: "carousel", Hook: domain.HookAfterEnter, Error: "boom"},
		},
		Duration: 3 * time.Millisecond,
	})
	assert.Contains(t, md, "`home` → `about`")
	assert.Contains(t, md, "hooks run: **4**")
	assert.Contains(t, md, "carousel")
	assert.Contains(t, md, "boom")

	assert.Contains(t, ReportMarkdown(&domain.CycleReport{Kind: domain.CycleFirstLoad, To: "home"}), "First load")
	assert.Contains(t, ReportMarkdown(&domain.CycleReport{Kind: domain.CycleClose, From: "about"}), "Closed")
}

func TestNewReportRenderer(t *testing.T) {
	out, err := NewReportRenderer()(&domain.CycleReport{Kind: domain.CycleFirstLoad, To: "home"})
	assert.NoError(t, err)
	assert.Contains(t, out, "home")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "no cycles recorded\n", Summary(nil))

	out := Summary([]domain.CycleReport{
		{Kind: domain.CycleTransition, From: "home", To: "about", HooksRun: 2, CleanupsPushed: 1, CleanupsRun: 1},
		{Kind: domain.CycleFirstLoad, To: "home", CleanupFailures: 1},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "KIND")
	assert.Contains(t, lines[1], "about")
	assert.Contains(t, lines[1], "1/1")
	assert.Contains(t, lines[2], "first_load")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "| |_| |__")
}
