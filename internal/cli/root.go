// Package cli defines the reversi command-line interface.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaminalder/codex-reversi/internal/config"
	"github.com/jaminalder/codex-reversi/internal/logging"
)

// skipConfig marks commands that must run even when the config file is broken.
const skipConfig = "skip-config"

// Options stores global CLI options shared between commands.
type Options struct {
	ConfigPath string
	LogLevel   logging.Level
	Config     *config.Config
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	rootCmd := newRootCommand(&Options{LogLevel: logging.LevelInfo}, logger)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reversi",
		Short:         "reversi serves and plays two-player Reversi",
		Long:          "reversi runs a browser-based Reversi server, a hot-seat terminal game, and replays move transcripts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if cmd.Annotations[skipConfig] == "" {
				loaded, err := config.Load(opts.ConfigPath)
				if err != nil {
					return err
				}
				cfg = *loaded
			}
			opts.Config = &cfg

			levelName := cfg.LogLevel
			if f := cmd.Flag("log-level"); f != nil && f.Changed {
				levelName = f.Value.String()
			}
			opts.LogLevel = logging.ParseLevel(levelName)
			logger = logging.NewLogger(cmd.ErrOrStderr(), opts.LogLevel)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", opts.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config.yaml (default: search the XDG config dirs)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCommand(opts),
		newPlayCommand(opts),
		newReplayCommand(opts),
		newConfigCommand(opts),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
