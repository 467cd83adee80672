package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jaminalder/codex-reversi/internal/config"
)

// newConfigCommand groups config file helpers.
func newConfigCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:         "init",
			Short:       "Write the default config to the XDG config directory",
			Annotations: map[string]string{skipConfig: "true"},
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := config.WriteDefault()
				if err != nil {
					return err
				}
				LoggerFromContext(cmd.Context()).Info("config written", "path", path)
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as YAML",
			RunE: func(cmd *cobra.Command, _ []string) error {
				b, err := yaml.Marshal(opts.Config)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			},
		},
	)
	return cmd
}
