package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"days zero", func(c *Config) { c.General.DefaultDays = 0 }},
		{"days too many", func(c *Config) { c.General.DefaultDays = 400 }},
		{"tenant with slash", func(c *Config) { c.General.TenantID = "a/b" }},
		{"fast interval", func(c *Config) { c.Daemon.IntervalSec = 1 }},
		{"bad addr", func(c *Config) { c.Daemon.Addr = "nope" }},
		{"bad level", func(c *Config) { c.Daemon.LogLevel = "verbose" }},
		{"unknown theme", func(c *Config) { c.Appearance.Theme = "solarized" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if Exists() {
		t.Fatal("config should not exist in a fresh dir")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	if cfg.General.DefaultDays != 30 {
		t.Errorf("DefaultDays = %d, want 30", cfg.General.DefaultDays)
	}

	cfg.General.TenantID = "hotel-roma"
	cfg.General.DataDir = "/srv/exports"
	cfg.Daemon.IntervalSec = 60
	cfg.Appearance.Theme = "tokyo-night"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("config should exist after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.DefaultDays = -1
	if err := Save(cfg); err == nil {
		t.Fatal("Save should refuse an invalid config")
	}
	if Exists() {
		t.Error("nothing should be written for an invalid config")
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "armonyco"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(), []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("Load error = %v, want parsing error", err)
	}
}

func TestTenantID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.TenantID = " from-config "

	t.Setenv(TenantEnv, "")
	if got := TenantID(cfg); got != "from-config" {
		t.Errorf("TenantID = %q, want from-config", got)
	}

	t.Setenv(TenantEnv, "from-env")
	if got := TenantID(cfg); got != "from-env" {
		t.Errorf("TenantID = %q, want from-env", got)
	}
}
