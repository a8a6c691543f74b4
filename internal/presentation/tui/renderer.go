package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/runner"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// NewReportRenderer renders cycle reports as styled markdown.
func NewReportRenderer() runner.ReportRenderer {
	render := NewRenderer()
	return func(r *domain.CycleReport) (string, error) {
		return render(ReportMarkdown(r))
	}
}

// ReportMarkdown describes a cycle report in markdown.
func ReportMarkdown(r *domain.CycleReport) string {
	var b strings.Builder
	switch r.Kind {
	case domain.CycleFirstLoad:
		fmt.Fprintf(&b, "## First load: `%s`\n\n", r.To)
	case domain.CycleClose:
		fmt.Fprintf(&b, "## Closed `%s`\n\n", r.From)
	default:
		fmt.Fprintf(&b, "## `%s` → `%s`\n\n", r.From, r.To)
	}
	fmt.Fprintf(&b, "- hooks run: **%d**\n", r.HooksRun)
	fmt.Fprintf(&b, "- cleanups: **%d** pushed, **%d** run, **%d** failed\n",
		r.CleanupsPushed, r.CleanupsRun, r.CleanupFailures)
	fmt.Fprintf(&b, "- duration: %s\n", r.Duration)
	if len(r.HookFailures) > 0 {
		b.WriteString("\n### Failures\n\n")
		for _, f := range r.HookFailures {
			fmt.Fprintf(&b, "- `%s.%s` during *%s*: %s\n", f.Module, f.Hook, f.Phase, f.Error)
		}
	}
	return b.String()
}
