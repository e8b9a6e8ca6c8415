package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/cli"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/pipeline"
)

var flagCashflow bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Governance KPIs for the selected tenant",
	RunE:  runDashboard,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, dashboardCmd} {
		c.Flags().BoolVar(&flagCashflow, "cashflow", false, "Take the governed value from the cashflow summary")
	}
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	f := currentFilter()
	f.UseCashflow = flagCashflow
	rep := pipeline.BuildReport(result, f)

	if len(rep.Executions) == 0 {
		fmt.Println("\n  No executions found in the selected time range.")
		fmt.Println("  Dashboard values below fall back to their empty-state defaults.")
	}

	fmt.Println()
	fmt.Print(cli.RenderKPITable(fmt.Sprintf("GOVERNANCE  %s  %s", rep.TenantID, periodLabel()), rep.DashboardKPIs))
	if days := pipeline.AggregateDays(rep.Executions, f.Since, time.Now()); len(days) > 1 {
		values := make([]float64, len(days))
		for i, d := range days {
			values[len(days)-1-i] = float64(d.Executions)
		}
		fmt.Printf("  Executions per day  %s\n", cli.RenderSparkline(values))
	}
	if flagCashflow && result.Cashflow == nil {
		fmt.Println("  No cashflow summary found; value summed from executions.")
	}
	fmt.Println()
	return nil
}
