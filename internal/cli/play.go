package cli

import (
	"github.com/spf13/cobra"

	"github.com/jaminalder/codex-reversi/internal/tui"
)

// newPlayCommand creates the "play" subcommand that starts the terminal game.
func newPlayCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a hot-seat game in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tui.Run(opts.Config, LoggerFromContext(cmd.Context()))
		},
	}
}
