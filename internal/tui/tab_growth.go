package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/currency"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui/components"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui/theme"
)

type categoryLine struct {
	label  string
	cat    model.Category
	amount float64
}

func categoryLines(c model.CategoryTotals) []categoryLine {
	return []categoryLine{
		{"City tax", model.CategoryTax, c.Tax},
		{"Late checkout", model.CategoryCheckoutFee, c.CheckoutFee},
		{"Early check-in", model.CategoryCheckinFee, c.CheckinFee},
		{"Medium services", model.CategoryMedium, c.Medium},
	}
}

func (a App) renderGrowthTab(cw int) string {
	var b strings.Builder
	b.WriteString(components.KPIGrid(a.report.GrowthKPIs, 3, cw))
	b.WriteString("\n")
	b.WriteString(a.renderCategoryCard(cw))
	return b.String()
}

func (a App) renderCategoryCard(w int) string {
	t := theme.Active
	c := a.report.Growth.Categories
	if c.TotalCount == 0 {
		return components.ContentCard("Revenue by category", "No transactions in range.", w)
	}

	inner := components.CardInnerWidth(w)
	const labelW = 16
	barW := max(inner-labelW-36, 10)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	colors := []lipgloss.Color{t.Magenta, t.Orange, t.Yellow, t.Blue}

	var b strings.Builder
	for i, line := range categoryLines(c) {
		share := 0.0
		if c.GrossTotal > 0 {
			share = line.amount / c.GrossTotal
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(components.ShareBar(line.label, share, colors[i], labelW, barW))
		b.WriteString(amountStyle.Render(fmt.Sprintf("  %14s", currency.Format(line.amount))))
		b.WriteString(countStyle.Render(fmt.Sprintf("  %4d tx", c.Counts[line.cat])))
	}

	unclassified := c.Counts[model.CategoryUnclassified]
	b.WriteString("\n\n")
	b.WriteString(countStyle.Render(fmt.Sprintf("%d of %d transactions unclassified", unclassified, c.TotalCount)))

	return components.ContentCard("Revenue by category", b.String(), w)
}
