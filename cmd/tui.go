package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/config"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&flagCashflow, "cashflow", false, "Take the governed value from the cashflow summary")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		DataDir:     flagDataDir,
		TenantID:    flagTenant,
		Days:        flagDays,
		Workflow:    flagWorkflow,
		UseCache:    !flagNoCache,
		UseCashflow: flagCashflow,
		NeedSetup:   !config.Exists() || flagTenant == "",
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
