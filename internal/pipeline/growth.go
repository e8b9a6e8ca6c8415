package pipeline

import (
	"fmt"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/cli"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/currency"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
)

// Growth KPI identifiers, in display order.
const (
	KPIRevenueGoverned      = "revenue-governed"
	KPIConversionEfficiency = "conversion-efficiency"
	KPIOrphanDays           = "orphan-days"
	KPILateCheckoutRevenue  = "late-checkout-revenue"
	KPIEarlyCheckinRevenue  = "early-checkin-revenue"
	KPIServicesRevenue      = "services-revenue"
)

// ComputeGrowth classifies transactions and derives the upsell rate.
func ComputeGrowth(txs []model.TransactionRecord) model.GrowthMetrics {
	cats := SummarizeCategories(txs)
	g := model.GrowthMetrics{Categories: cats}
	if cats.TotalCount > 0 {
		g.UpsellRate = float64(cats.ServiceCount) / float64(cats.TotalCount) * 100
	}
	return g
}

// GrowthKPIs computes growth metrics and renders the six growth KPIs.
func GrowthKPIs(txs []model.TransactionRecord) []model.KPI {
	return BuildGrowthKPIs(ComputeGrowth(txs))
}

// BuildGrowthKPIs renders already-computed growth metrics as KPIs.
func BuildGrowthKPIs(g model.GrowthMetrics) []model.KPI {
	c := g.Categories
	return []model.KPI{
		{
			ID:      KPIRevenueGoverned,
			Label:   "Revenue Governed",
			Value:   currency.Format(c.GrossTotal),
			Subtext: fmt.Sprintf("%s transactions", cli.FormatNumber(int64(c.TotalCount))),
			Status:  model.KPINeutral,
		},
		{
			ID:      KPIConversionEfficiency,
			Label:   "Conversion Efficiency",
			Value:   fmt.Sprintf("%.1f%%", g.UpsellRate),
			Subtext: fmt.Sprintf("%d of %d upsold", c.ServiceCount, c.TotalCount),
			Status:  model.KPINeutral,
		},
		{
			// No data source exists for gap nights yet.
			ID:      KPIOrphanDays,
			Label:   "Orphan Days Filled",
			Value:   "0",
			Subtext: "gap nights recovered",
			Status:  model.KPINeutral,
		},
		{
			ID:      KPILateCheckoutRevenue,
			Label:   "Late Checkout Revenue",
			Value:   currency.Format(c.CheckoutFee),
			Subtext: fmt.Sprintf("%d fees", c.Counts[model.CategoryCheckoutFee]),
			Status:  model.KPINeutral,
		},
		{
			ID:      KPIEarlyCheckinRevenue,
			Label:   "Early Check-in Revenue",
			Value:   currency.Format(c.CheckinFee),
			Subtext: fmt.Sprintf("%d fees", c.Counts[model.CategoryCheckinFee]),
			Status:  model.KPINeutral,
		},
		{
			ID:      KPIServicesRevenue,
			Label:   "Services Revenue",
			Value:   currency.Format(c.ServicesTotal),
			Subtext: "all classified services",
			Status:  model.KPINeutral,
		},
	}
}
