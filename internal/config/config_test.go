package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

// isolate points the XDG and .env lookups at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(dir, "etc"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	prev := dotEnvFile
	dotEnvFile = filepath.Join(dir, ".env")
	t.Cleanup(func() { dotEnvFile = prev })
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
addr: ":9000"
idle_ttl: 2h
theme:
  black_symbol: "X"
  board_color: 28
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.IdleTTL != 2*time.Hour {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Theme.BlackSymbol != "X" || cfg.Theme.BoardColor != 28 {
		t.Fatalf("theme values not applied: %+v", cfg.Theme)
	}
	if cfg.Theme.WhiteSymbol != "○" || cfg.Heartbeat != 15*time.Second {
		t.Fatalf("unset values should keep defaults: %+v", cfg)
	}
}

func TestLoadSearchesXDG(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", "reversi", "config.yaml"), "log_level: debug\n")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected XDG config to be read, got %q", cfg.LogLevel)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.yaml")
	writeFile(t, path, "addr: \":9000\"\nheartbeat: 5s\n")
	t.Setenv("REVERSI_ADDR", "127.0.0.1:7000")
	t.Setenv("REVERSI_THEME_HINT_SYMBOL", "+")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != "127.0.0.1:7000" {
		t.Fatalf("env should override file, got %q", cfg.Addr)
	}
	if cfg.Heartbeat != 5*time.Second {
		t.Fatalf("file value lost, got %v", cfg.Heartbeat)
	}
	if cfg.Theme.HintSymbol != "+" {
		t.Fatalf("prefixed theme env not applied, got %q", cfg.Theme.HintSymbol)
	}
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "REVERSI_SWEEP_INTERVAL=1m\nREVERSI_LOG_LEVEL=warn\n")
	t.Setenv("REVERSI_LOG_LEVEL", "error")
	t.Cleanup(func() { os.Unsetenv("REVERSI_SWEEP_INTERVAL") })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SweepInterval != time.Minute {
		t.Fatalf("expected .env value, got %v", cfg.SweepInterval)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("real environment should win over .env, got %q", cfg.LogLevel)
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "addr: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error for explicit missing file, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }, "addr"},
		{"zero ttl", func(c *Config) { c.IdleTTL = 0 }, "idle_ttl"},
		{"negative heartbeat", func(c *Config) { c.Heartbeat = -time.Second }, "heartbeat"},
		{"two-rune symbol", func(c *Config) { c.Theme.BlackSymbol = "ab" }, "theme.black_symbol"},
		{"control symbol", func(c *Config) { c.Theme.EmptySymbol = "\x07" }, "theme.empty_symbol"},
		{"palette range", func(c *Config) { c.Theme.FlipColor = 300 }, "theme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var invalid *InvalidConfig
			if !errors.As(err, &invalid) || invalid.Field != tt.field {
				t.Fatalf("expected InvalidConfig for %s, got %v", tt.field, err)
			}
		})
	}
	def := Default()
	if err := def.Validate(); err != nil {
		t.Fatalf("defaults must be valid: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "out", "config.yaml")
	want := Default()
	want.Addr = ":1234"
	want.IdleTTL = 90 * time.Minute
	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", *got, want)
	}
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	isolate(t)
	path, err := WriteDefault()
	if err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}
	if _, err := WriteDefault(); err == nil {
		t.Fatalf("second WriteDefault should refuse to overwrite")
	}
}
