package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/config"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/source"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	tenantID := flagTenant
	dataDir := flagDataDir
	days := cfg.General.DefaultDays
	themeName := cfg.Appearance.Theme

	fmt.Println()
	fmt.Println("  Welcome to armonyco!")
	if tenants, err := source.ListTenants(dataDir); err == nil && len(tenants) > 0 {
		fmt.Printf("  Found %d tenants in %s: %s\n", len(tenants), dataDir, strings.Join(tenants, ", "))
	}
	fmt.Println()

	form := tui.NewSetupForm(&tenantID, &dataDir, &days, &themeName)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup form: %w", err)
	}

	cfg.General.TenantID = strings.TrimSpace(tenantID)
	cfg.General.DataDir = strings.TrimSpace(dataDir)
	cfg.General.DefaultDays = days
	cfg.Appearance.Theme = themeName

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `armonyco setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
