package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/config"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/source"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/tui/theme"
)

// setupValues backs the first-run form fields.
type setupValues struct {
	tenantID string
	dataDir  string
	days     int
	theme    string
}

// DaysOptions are the reporting windows offered during setup.
var DaysOptions = []int{7, 30, 90}

// NewSetupForm builds the first-run form shared by the TUI and `armonyco setup`.
// Results are written into the given pointers.
func NewSetupForm(tenantID, dataDir *string, days *int, themeName *string) *huh.Form {
	dayOpts := make([]huh.Option[int], len(DaysOptions))
	for i, d := range DaysOptions {
		dayOpts[i] = huh.NewOption(strconv.Itoa(d)+" days", d)
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to armonyco").
				Description("Point the dashboard at a tenant's exported records."),
			huh.NewInput().
				Title("Exports directory").
				Description("Holds one folder per tenant.").
				Value(dataDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("a directory is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Tenant ID").
				Description("Folder name of the tenant inside the exports directory.").
				Value(tenantID).
				Validate(func(s string) error {
					return source.ValidateTenant(strings.TrimSpace(s))
				}),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Default time range").
				Options(dayOpts...).
				Value(days),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(themeName),
		),
	).WithTheme(huh.ThemeDracula())
}

func newSetupForm(opts Options, vals *setupValues) *huh.Form {
	vals.tenantID = opts.TenantID
	vals.dataDir = opts.DataDir
	vals.days = 30
	for _, d := range DaysOptions {
		if d == opts.Days {
			vals.days = d
		}
	}
	vals.theme = theme.Active.Name
	return NewSetupForm(&vals.tenantID, &vals.dataDir, &vals.days, &vals.theme)
}

// saveSetupConfig applies the form values to the running app and persists them.
func (a *App) saveSetupConfig() error {
	cfg, _ := config.Load()

	cfg.General.TenantID = strings.TrimSpace(a.setupVals.tenantID)
	cfg.General.DataDir = strings.TrimSpace(a.setupVals.dataDir)
	cfg.General.DefaultDays = a.setupVals.days
	cfg.Appearance.Theme = a.setupVals.theme

	a.opts.TenantID = cfg.General.TenantID
	a.opts.DataDir = cfg.General.DataDir
	a.opts.Days = cfg.General.DefaultDays
	theme.SetActive(cfg.Appearance.Theme)

	return config.Save(cfg)
}
