package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui/theme"
)

var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		buf.WriteRune(blocks[max(0, min(idx, len(blocks)-1))])
	}

	style := lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface)
	return style.Render(buf.String())
}

// ColumnChart renders one column per value, height rows tall, with the
// peak value labelled on the axis. Values beyond width are dropped from
// the front so the most recent stay visible.
func ColumnChart(values []float64, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if height < 2 || width < 8 {
		return Sparkline(values, color)
	}

	t := theme.Active
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	label := formatAxis(peak)
	labelW := len(label)

	cols := width - labelW - 1
	if len(values) > cols {
		values = values[len(values)-cols:]
	}
	if peak <= 0 {
		peak = 1
	}

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bar := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var b strings.Builder
	levels := height * len(blocks)
	for row := height; row >= 1; row-- {
		if row == height {
			b.WriteString(axis.Render(label + "│"))
		} else {
			b.WriteString(axis.Render(strings.Repeat(" ", labelW) + "│"))
		}
		var line strings.Builder
		for _, v := range values {
			filled := int(v / peak * float64(levels))
			rowBase := (row - 1) * len(blocks)
			switch {
			case filled >= rowBase+len(blocks):
				line.WriteRune('█')
			case filled > rowBase:
				line.WriteRune(blocks[filled-rowBase-1])
			default:
				line.WriteRune(' ')
			}
		}
		b.WriteString(bar.Render(line.String()))
		b.WriteString("\n")
	}
	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", labelW, "0", strings.Repeat("─", len(values)))))
	return b.String()
}

func formatAxis(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fk", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
