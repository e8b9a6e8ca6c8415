// Package cmd implements the armonyco CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/config"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/pipeline"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/source"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", cfg.General.DataDir)
	fmt.Printf("    Default days:   %d\n", cfg.General.DefaultDays)
	tenant := config.TenantID(cfg)
	switch {
	case tenant == "":
		fmt.Println("    Tenant:         not configured")
	case os.Getenv(config.TenantEnv) != "":
		fmt.Printf("    Tenant:         %s (from %s)\n", maskTenant(tenant), config.TenantEnv)
	default:
		fmt.Printf("    Tenant:         %s\n", maskTenant(tenant))
	}
	fmt.Println()

	if tenant != "" {
		printTenantData(tenant)
	}

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:        %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval:       %ds\n", cfg.Daemon.IntervalSec)
	fmt.Printf("    Events buffer:  %d\n", cfg.Daemon.EventsBuffer)
	fmt.Printf("    Log level:      %s\n", cfg.Daemon.LogLevel)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	if err := config.Validate(cfg); err != nil {
		fmt.Printf("  Invalid: %v\n", err)
	} else {
		fmt.Println("  Valid.")
	}
	fmt.Println("  Run `armonyco setup` to reconfigure.")
	return nil
}

func maskTenant(id string) string {
	if len(id) > 12 {
		return id[:6] + "..." + id[len(id)-4:]
	}
	return id
}

func printTenantData(tenant string) {
	fmt.Println("  [Data]")
	files, err := source.ScanDir(flagDataDir, tenant)
	if err != nil {
		fmt.Printf("    Exports: %v\n", err)
	} else {
		byKind := source.CountByKind(files)
		fmt.Printf("    Exports:        %d executions, %d transactions, %d messages files\n",
			byKind[source.KindExecutions], byKind[source.KindTransactions], byKind[source.KindMessages])
	}
	if _, ok := source.FindCashflow(flagDataDir, tenant); ok {
		fmt.Println("    Cashflow:       present")
	}

	if _, err := os.Stat(pipeline.CachePath()); err != nil {
		fmt.Println("    Cache:          empty")
		fmt.Println()
		return
	}
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		fmt.Printf("    Cache:          unavailable (%v)\n", err)
		fmt.Println()
		return
	}
	defer func() { _ = cache.Close() }()

	if n, err := cache.RecordCount(tenant); err == nil {
		fmt.Printf("    Cached records: %s\n", humanize.Comma(int64(n)))
	}
	if run, ok, err := cache.LastRun(tenant); err == nil && ok {
		fmt.Printf("    Last ingest:    %s (%d files, %d reparsed)\n",
			humanize.Time(run.FinishedAt), run.TotalFiles, run.Reparsed)
	}
	fmt.Println()
}
