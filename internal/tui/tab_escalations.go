package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/normalize"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui/components"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui/theme"
)

func (a App) renderEscalationsTab(cw, h int) string {
	t := theme.Active
	escs := a.report.Escalations
	if len(escs) == 0 {
		return components.ContentCard("Open escalations", "Nothing is waiting for a human.", cw)
	}

	inner := components.CardInnerWidth(cw)
	wfW := max(inner-50, 12)

	head := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	selected := lipgloss.NewStyle().Background(t.SurfaceHover)

	// Card border, title and header take four lines.
	visible := max(h-5, 1)
	offset := 0
	if a.escCursor >= visible {
		offset = a.escCursor - visible + 1
	}
	end := min(offset+visible, len(escs))

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("  %-9s %-12s %-*s %-16s", "Priority", "Status", wfW, "Workflow", "Started")))
	for i := offset; i < end; i++ {
		e := escs[i]
		priority := normalize.Priority(e.EscalationPriority)
		status := e.EscalationStatus
		if status == "" {
			status = "Open"
		}
		started := "unknown"
		if !e.StartedAt.IsZero() {
			started = humanize.RelTime(e.StartedAt, a.now(), "ago", "from now")
		}

		pStyle := lipgloss.NewStyle().Foreground(t.ForVariant(normalize.PriorityVariant(e.EscalationPriority))).
			Background(t.Surface).Bold(true)
		sStyle := lipgloss.NewStyle().Foreground(t.ForVariant(normalize.StatusColor(status))).Background(t.Surface)

		marker := "  "
		if i == a.escCursor {
			marker = "▸ "
		}
		line := text.Render(marker) +
			pStyle.Render(fmt.Sprintf("%-9s", priority)) + text.Render(" ") +
			sStyle.Render(fmt.Sprintf("%-12s", truncStr(status, 12))) + text.Render(" ") +
			text.Render(fmt.Sprintf("%-*s", wfW, truncStr(e.WorkflowName, wfW))) + text.Render(" ") +
			dim.Render(fmt.Sprintf("%-16s", started))
		if i == a.escCursor {
			line = selected.Render(line)
		}
		b.WriteString("\n")
		b.WriteString(line)
	}

	title := fmt.Sprintf("Open escalations (%d)", len(escs))
	return components.ContentCard(title, b.String(), cw)
}
