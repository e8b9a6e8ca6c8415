package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/cli"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/currency"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/pipeline"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui/components"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui/theme"
)

func (a App) renderDashboardTab(cw int) string {
	cols := 4
	if a.isCompactLayout() {
		cols = 3
	}

	var b strings.Builder
	b.WriteString(components.KPIGrid(a.report.DashboardKPIs, cols, cw))
	b.WriteString("\n")

	half := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		a.renderDailyCard(half[0]),
		a.renderWorkflowCard(half[1]),
	}))
	return b.String()
}

func (a App) renderDailyCard(w int) string {
	t := theme.Active
	if len(a.daily) == 0 {
		return components.ContentCard("Executions per day", "No executions in range.", w)
	}

	// AggregateDays is newest first; the chart reads left to right.
	values := make([]float64, len(a.daily))
	for i, d := range a.daily {
		values[len(a.daily)-1-i] = float64(d.Executions)
	}
	chart := components.ColumnChart(values, t.Accent, components.CardInnerWidth(w), 6)

	first := a.daily[len(a.daily)-1].Date.Format("Jan 02")
	last := a.daily[0].Date.Format("Jan 02")
	caption := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
		Render(fmt.Sprintf("%s → %s", first, last))

	return components.ContentCard("Executions per day", chart+"\n"+caption, w)
}

func (a App) renderWorkflowCard(w int) string {
	t := theme.Active
	if len(a.report.Executions) == 0 {
		return components.ContentCard("Workflows", "No executions in range.", w)
	}

	stats := pipeline.AggregateWorkflows(a.report.Executions)
	inner := components.CardInnerWidth(w)
	nameW := max(inner-30, 8)

	head := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-*s %6s %7s %14s", nameW, "Workflow", "Runs", "Success", "Value")))
	for i, ws := range stats {
		if i == 6 {
			break
		}
		rate := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		rateText := cli.Placeholder
		if ws.Finished > 0 {
			rate = rate.Foreground(components.ColorForShare(ws.SuccessRate / 100))
			rateText = cli.FormatPercent(ws.SuccessRate)
		}
		b.WriteString("\n")
		b.WriteString(row.Render(fmt.Sprintf("%-*s %6s ",
			nameW, truncStr(ws.Workflow, nameW),
			cli.FormatNumber(int64(ws.Executions)))))
		b.WriteString(rate.Render(fmt.Sprintf("%7s", rateText)))
		b.WriteString(row.Render(fmt.Sprintf(" %14s", currency.Format(ws.ValueGoverned))))
	}
	return components.ContentCard("Workflows", b.String(), w)
}
