package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/cli"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/currency"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/normalize"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/pipeline"
)

var flagExecLimit int

var executionsCmd = &cobra.Command{
	Use:   "executions",
	Short: "Recent workflow executions and per-workflow totals",
	RunE:  runExecutions,
}

func init() {
	executionsCmd.Flags().IntVarP(&flagExecLimit, "limit", "l", 20, "Number of recent executions to list (0 for all)")
	rootCmd.AddCommand(executionsCmd)
}

func runExecutions(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	rep := pipeline.BuildReport(result, currentFilter())
	if len(rep.Executions) == 0 {
		fmt.Println("\n  No executions found in the selected time range.")
		return nil
	}

	execs := rep.Executions
	// Newest last in the export; list newest first.
	recent := make([][]string, 0, len(execs))
	for i := len(execs) - 1; i >= 0; i-- {
		if flagExecLimit > 0 && len(recent) >= flagExecLimit {
			break
		}
		e := execs[i]
		started := cli.Placeholder
		if !e.StartedAt.IsZero() {
			started = e.StartedAt.Local().Format("2006-01-02 15:04")
		}
		latency := cli.Placeholder
		if d, ok := e.Latency(); ok {
			latency = cli.FormatSeconds(float64(d.Milliseconds()))
		}
		verdict := cli.Placeholder
		if e.GovernanceVerdict != "" {
			verdict = normalize.Verdict(e.GovernanceVerdict)
		}
		recent = append(recent, []string{
			started,
			e.WorkflowName,
			normalize.Status(e.Status),
			verdict,
			latency,
			currency.Format(e.TotalCharge + e.ValueCaptured),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("EXECUTIONS  %s  %s", rep.TenantID, periodLabel()),
		Headers: []string{"Started", "Workflow", "Status", "Verdict", "Latency", "Value"},
		Rows:    recent,
	}))
	fmt.Println()

	workflows := pipeline.AggregateWorkflows(execs)
	rows := make([][]string, 0, len(workflows))
	for _, w := range workflows {
		rows = append(rows, []string{
			w.Workflow,
			cli.FormatNumber(int64(w.Executions)),
			cli.FormatNumber(int64(w.Finished)),
			cli.FormatNumber(int64(w.Failed)),
			cli.FormatPercent(w.SuccessRate),
			currency.Format(w.ValueGoverned),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By workflow",
		Headers: []string{"Workflow", "Runs", "Finished", "Failed", "Success", "Value"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
