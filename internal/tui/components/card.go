// Package components provides reusable TUI widgets for the armonyco dashboard.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui/theme"
)

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

// KPICard renders one KPI: label, value coloured by status, and subtext.
// outerWidth is the total rendered width including border.
func KPICard(k model.KPI, outerWidth int) string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(max(outerWidth-2, 10)).
		Padding(0, 1)

	labelStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	valueStyle := lipgloss.NewStyle().
		Foreground(t.ForStatus(k.Status)).
		Background(t.Surface).
		Bold(true)

	subStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	inner := CardInnerWidth(outerWidth)
	content := labelStyle.Render(truncate(k.Label, inner)) + "\n" +
		valueStyle.Render(truncate(k.Value, inner)) + "\n" +
		subStyle.Render(truncate(k.Subtext, inner))

	return cardStyle.Render(content)
}

// KPIGrid lays KPIs out in rows of cols cards spanning totalWidth.
func KPIGrid(kpis []model.KPI, cols, totalWidth int) string {
	if len(kpis) == 0 || cols <= 0 {
		return ""
	}

	var rows []string
	for start := 0; start < len(kpis); start += cols {
		end := min(start+cols, len(kpis))
		widths := LayoutRow(totalWidth, cols)
		cards := make([]string, 0, end-start)
		for i, k := range kpis[start:end] {
			cards = append(cards, KPICard(k, widths[i]))
		}
		rows = append(rows, CardRow(cards))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// ContentCard renders a bordered content card with an optional title.
// outerWidth controls the total rendered width including border.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(max(outerWidth-2, 10)).
		Padding(0, 1)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Bold(true)

	content := ""
	if title != "" {
		content = titleStyle.Render(title) + "\n"
	}
	content += body

	return cardStyle.Render(content)
}

// CardRow joins pre-rendered cards horizontally. Shorter cards are padded
// with the theme background so the row stays rectangular.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	tallest := 0
	for _, c := range cards {
		tallest = max(tallest, lipgloss.Height(c))
	}
	bg := lipgloss.NewStyle().Background(theme.Active.Background)
	padded := make([]string, len(cards))
	for i, c := range cards {
		padded[i] = bg.Width(lipgloss.Width(c)).Height(tallest).Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, padded...)
}

// CardInnerWidth returns the usable text width inside a card
// given its outer width (subtracts border + padding).
func CardInnerWidth(outerWidth int) int {
	return max(outerWidth-4, 10)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
