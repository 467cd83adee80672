package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jaminalder/codex-reversi/internal/app"
	"github.com/jaminalder/codex-reversi/internal/web"
)

// newServeCommand creates the "serve" subcommand that runs the web server.
func newServeCommand(opts *Options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser game over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())
			cfg := opts.Config
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc := app.NewService()
			svc.SetLogger(logger)
			svc.SetIdleTTL(cfg.IdleTTL)
			go svc.Run(ctx, cfg.SweepInterval)

			handler := web.NewServer(svc, web.WithLogger(logger), web.WithHeartbeat(cfg.Heartbeat))
			return web.ListenAndServe(ctx, cfg.Addr, handler, cfg.ShutdownTimeout, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address override (e.g. :8080)")
	return cmd
}
