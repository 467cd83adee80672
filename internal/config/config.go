// Package config loads runtime settings from an optional YAML file, an optional
// .env file and REVERSI_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// cfgFile is the config path relative to the XDG config directories.
const cfgFile = "reversi/config.yaml"

// dotEnvFile is loaded from the working directory when present.
var dotEnvFile = ".env"

// InvalidConfig reports a setting that failed validation.
type InvalidConfig struct {
	Field string
	Err   string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Err)
}

// Theme controls how the terminal client draws the board.
type Theme struct {
	BlackSymbol string `yaml:"black_symbol" env:"BLACK_SYMBOL"`
	WhiteSymbol string `yaml:"white_symbol" env:"WHITE_SYMBOL"`
	EmptySymbol string `yaml:"empty_symbol" env:"EMPTY_SYMBOL"`
	HintSymbol  string `yaml:"hint_symbol" env:"HINT_SYMBOL"`
	// Colors are 256-color palette indexes.
	BoardColor  int `yaml:"board_color" env:"BOARD_COLOR"`
	BlackColor  int `yaml:"black_color" env:"BLACK_COLOR"`
	WhiteColor  int `yaml:"white_color" env:"WHITE_COLOR"`
	CursorColor int `yaml:"cursor_color" env:"CURSOR_COLOR"`
	FlipColor   int `yaml:"flip_color" env:"FLIP_COLOR"`
}

// Config holds every runtime setting.
type Config struct {
	// Addr is the HTTP listen address for the serve command.
	Addr     string `yaml:"addr" env:"REVERSI_ADDR"`
	LogLevel string `yaml:"log_level" env:"REVERSI_LOG_LEVEL"`
	// IdleTTL is how long a game may go without updates before it is dropped.
	IdleTTL       time.Duration `yaml:"idle_ttl" env:"REVERSI_IDLE_TTL"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"REVERSI_SWEEP_INTERVAL"`
	// Heartbeat is the SSE keep-alive interval.
	Heartbeat       time.Duration `yaml:"heartbeat" env:"REVERSI_HEARTBEAT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"REVERSI_SHUTDOWN_TIMEOUT"`
	Theme           Theme         `yaml:"theme" envPrefix:"REVERSI_THEME_"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:            ":8080",
		LogLevel:        "info",
		IdleTTL:         24 * time.Hour,
		SweepInterval:   5 * time.Minute,
		Heartbeat:       15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Theme: Theme{
			BlackSymbol: "●",
			WhiteSymbol: "○",
			EmptySymbol: "·",
			HintSymbol:  "∙",
			BoardColor:  22,
			BlackColor:  232,
			WhiteColor:  255,
			CursorColor: 4,
			FlipColor:   3,
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty the
// XDG config directories are searched for reversi/config.yaml and a missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		if found, err := xdg.SearchConfigFile(cfgFile); err == nil {
			file = found
		}
	}
	if file != "" {
		if err := readFile(file, &cfg); err != nil {
			return nil, fmt.Errorf("read config %q: %w", file, err)
		}
	}

	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", dotEnvFile, err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return &InvalidConfig{Field: "addr", Err: "must not be empty"}
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"idle_ttl", c.IdleTTL},
		{"sweep_interval", c.SweepInterval},
		{"heartbeat", c.Heartbeat},
		{"shutdown_timeout", c.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return &InvalidConfig{Field: d.name, Err: "must be positive"}
		}
	}
	symbols := []struct {
		name string
		s    string
	}{
		{"theme.black_symbol", c.Theme.BlackSymbol},
		{"theme.white_symbol", c.Theme.WhiteSymbol},
		{"theme.empty_symbol", c.Theme.EmptySymbol},
		{"theme.hint_symbol", c.Theme.HintSymbol},
	}
	for _, s := range symbols {
		if utf8.RuneCountInString(s.s) != 1 {
			return &InvalidConfig{Field: s.name, Err: "must be a single character"}
		}
		r, _ := utf8.DecodeRuneInString(s.s)
		if !unicode.IsPrint(r) {
			return &InvalidConfig{Field: s.name, Err: "control characters are not allowed"}
		}
	}
	for _, col := range []int{c.Theme.BoardColor, c.Theme.BlackColor, c.Theme.WhiteColor, c.Theme.CursorColor, c.Theme.FlipColor} {
		if col < 0 || col > 255 {
			return &InvalidConfig{Field: "theme", Err: fmt.Sprintf("palette color %d out of range 0-255", col)}
		}
	}
	return nil
}

// WriteDefault writes the built-in settings to the user's XDG config
// directory unless a file already exists there, and returns its path.
func WriteDefault() (string, error) {
	path, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s already exists", path)
	}
	return path, Save(path, Default())
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// loadDotEnv exports the variables of a .env file that are not already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}
