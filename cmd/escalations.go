package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/cli"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/normalize"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/pipeline"
)

var escalationsCmd = &cobra.Command{
	Use:   "escalations",
	Short: "Open escalations awaiting a human, most urgent first",
	RunE:  runEscalations,
}

func init() {
	rootCmd.AddCommand(escalationsCmd)
}

func runEscalations(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	rep := pipeline.BuildReport(result, currentFilter())
	if len(rep.Escalations) == 0 {
		fmt.Println("\n  No open escalations.")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(rep.Escalations))
	for _, e := range rep.Escalations {
		status := e.EscalationStatus
		if status == "" {
			status = "Open"
		}
		started := "unknown"
		if !e.StartedAt.IsZero() {
			started = humanize.RelTime(e.StartedAt, now, "ago", "from now")
		}
		rows = append(rows, []string{
			normalize.Priority(e.EscalationPriority),
			status,
			e.WorkflowName,
			e.ID,
			started,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("OPEN ESCALATIONS  %s  %s", rep.TenantID, periodLabel()),
		Headers: []string{"Priority", "Status", "Workflow", "Execution", "Started"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
