package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/cli"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/currency"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/pipeline"
)

var growthCmd = &cobra.Command{
	Use:   "growth",
	Short: "Upsell revenue by category",
	RunE:  runGrowth,
}

func init() {
	rootCmd.AddCommand(growthCmd)
}

func runGrowth(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	rep := pipeline.BuildReport(result, currentFilter())
	c := rep.Growth.Categories

	fmt.Println()
	fmt.Print(cli.RenderKPITable(fmt.Sprintf("GROWTH  %s  %s", rep.TenantID, periodLabel()), rep.GrowthKPIs))
	fmt.Println()

	if c.TotalCount == 0 {
		fmt.Println("  No transactions found in the selected time range.")
		return nil
	}

	lines := []struct {
		label  string
		cat    model.Category
		amount float64
	}{
		{"City tax", model.CategoryTax, c.Tax},
		{"Late checkout", model.CategoryCheckoutFee, c.CheckoutFee},
		{"Early check-in", model.CategoryCheckinFee, c.CheckinFee},
		{"Medium services", model.CategoryMedium, c.Medium},
	}

	rows := make([][]string, 0, len(lines)+3)
	var peak float64
	for _, l := range lines {
		share := 0.0
		if c.GrossTotal > 0 {
			share = l.amount / c.GrossTotal * 100
		}
		rows = append(rows, []string{
			l.label,
			cli.FormatNumber(int64(c.Counts[l.cat])),
			currency.Format(l.amount),
			cli.FormatPercent(share),
		})
		peak = max(peak, l.amount)
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Services total", cli.FormatNumber(int64(c.ServiceCount)), currency.Format(c.ServicesTotal), ""},
		[]string{"Gross", cli.FormatNumber(int64(c.TotalCount)), currency.Format(c.GrossTotal), ""},
	)

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Revenue by category",
		Headers: []string{"Category", "Count", "Amount", "Share"},
		Rows:    rows,
	}))
	fmt.Println()

	for _, l := range lines {
		fmt.Println(cli.RenderHorizontalBar(l.label, l.amount, peak, 40))
	}
	fmt.Println()
	return nil
}
