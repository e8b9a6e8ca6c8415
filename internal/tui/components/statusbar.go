package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, tenant, dataAge string, refreshing bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [r]efresh  [q]uit"
	right := ""
	if refreshing {
		right = "refreshing… "
	} else if dataAge != "" {
		right = fmt.Sprintf("Loaded in %s ", dataAge)
	}
	if tenant != "" {
		right = tenant + "  " + right
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return style.Render(left + fmt.Sprintf("%*s", padding, "") + right)
}
