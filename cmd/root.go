package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/cli"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/config"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/pipeline"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/store"
)

var (
	flagDays     int
	flagWorkflow string
	flagNoCache  bool
	flagDataDir  string
	flagTenant   string
	flagQuiet    bool
)

// cfg is the loaded configuration, filled before any command runs.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:               "armonyco",
	Short:             "Hospitality operations metrics CLI",
	Long:              "Governance KPIs, growth revenue and guest conversations from tenant exports.",
	SilenceUsage:      true,
	PersistentPreRunE: applyConfig,
	RunE:              runDashboard,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 30, "Time window in days")
	rootCmd.PersistentFlags().StringVarP(&flagWorkflow, "workflow", "w", "", "Filter to workflow (substring match)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", config.DefaultDataDir(), "Export data directory")
	rootCmd.PersistentFlags().StringVarP(&flagTenant, "tenant", "t", "", "Tenant id (default from "+config.TenantEnv+" or config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// applyConfig loads the config file and uses it for every flag the user
// did not set explicitly. The tenant resolves as flag, then env, then file.
func applyConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		// setup and config fall back to defaults on a broken file
		if cmd != setupCmd && cmd != configCmd {
			return err
		}
		fmt.Fprintf(os.Stderr, "  Warning: %v, using defaults\n", err)
		loaded = config.DefaultConfig()
	}
	cfg = loaded

	flags := cmd.Flags()
	if !flags.Changed("days") && cfg.General.DefaultDays > 0 {
		flagDays = cfg.General.DefaultDays
	}
	if !flags.Changed("data-dir") && cfg.General.DataDir != "" {
		flagDataDir = cfg.General.DataDir
	}
	if !flags.Changed("tenant") {
		flagTenant = config.TenantID(cfg)
	}
	return nil
}

func requireTenant() error {
	if flagTenant == "" {
		return fmt.Errorf("no tenant selected: pass --tenant, set %s, or run `armonyco setup`", config.TenantEnv)
	}
	return nil
}

// loadData is the shared data loading path used by all commands.
// Uses SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	if err := requireTenant(); err != nil {
		return nil, err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning exports for %s...\n", flagTenant)
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%10 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing %s", cli.RenderProgressBar(current, total, 30))
		}
	}

	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, doing full parse\n")
			}
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(flagDataDir, flagTenant, cache, progressFn)
			if err != nil {
				if !flagQuiet {
					fmt.Fprintf(os.Stderr, "\n  Cache error, falling back to full parse\n")
				}
			} else {
				if !flagQuiet && cr.TotalFiles > 0 {
					if cr.Reparsed == 0 {
						fmt.Fprintf(os.Stderr, "\r  Loaded %d files from cache    \n", cr.CacheHits)
					} else {
						fmt.Fprintf(os.Stderr, "\r  %d cached + %d reparsed    \n", cr.CacheHits, cr.Reparsed)
					}
				}
				return &cr.LoadResult, nil
			}
		}
	}

	result, err := pipeline.Load(flagDataDir, flagTenant, progressFn)
	if err != nil {
		return nil, err
	}

	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %d files, %s executions    \n",
			result.ParsedFiles,
			cli.FormatNumber(int64(len(result.Executions))),
		)
	}
	if !flagQuiet && result.ParseErrors > 0 {
		fmt.Fprintf(os.Stderr, "  Skipped %d malformed lines\n", result.ParseErrors)
	}

	return result, nil
}

// currentFilter returns the report filter for the selected flags.
func currentFilter() pipeline.Filter {
	f := pipeline.LastDays(flagDays, time.Now())
	f.Workflow = flagWorkflow
	return f
}

func periodLabel() string {
	if flagDays <= 0 {
		return "All time"
	}
	return fmt.Sprintf("Last %dd", flagDays)
}
