package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a78bfa"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb7185"))
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

var summaryColumns = []string{"KIND", "FROM", "TO", "HOOKS", "CLEANUPS", "FAILURES", "DURATION"}

// Summary renders reports as an aligned table, one row per cycle.
func Summary(reports []domain.CycleReport) string {
	if len(reports) == 0 {
		return "no cycles recorded\n"
	}
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		failures := len(r.HookFailures) + r.CleanupFailures
		rows = append(rows, []string{
			string(r.Kind),
			orDash(r.From),
			orDash(r.To),
			fmt.Sprint(r.HooksRun),
			fmt.Sprintf("%d/%d", r.CleanupsRun, r.CleanupsPushed),
			fmt.Sprint(failures),
			r.Duration.String(),
		})
	}

	widths := make([]int, len(summaryColumns))
	for i, c := range summaryColumns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	b.WriteString(renderRow(summaryColumns, widths, headerStyle))
	for i, row := range rows {
		style := okStyle
		if len(reports[i].HookFailures) > 0 || reports[i].CleanupFailures > 0 {
			style = failStyle
		}
		b.WriteString(renderRow(row, widths, style))
	}
	return b.String()
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = cellStyle.Width(widths[i] + 2).Render(cell)
	}
	return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...)) + "\n"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
