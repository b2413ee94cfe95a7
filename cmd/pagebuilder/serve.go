package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pagebuilder/internal/app"
)

// NewServeCmd creates the serve command.
func NewServeCmd(env *runtimeEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the page API and live preview over HTTP",
		Long: `Serve restores the saved page and exposes it over a JSON API. Preview
clients connect to /ws/preview and receive page changes and component data
as they happen.

Examples:
  # Serve on the configured address
  pagebuilder serve

  # Serve on another port
  pagebuilder serve --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				env.cfg.Server.Addr = addr
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runServe(ctx, env)
		},
	}
	cmd.Flags().String("addr", "", "listen address, overrides server.addr")
	return cmd
}

func runServe(ctx context.Context, env *runtimeEnv) error {
	a, err := app.New(ctx, env.cfg, env.log, app.Options{Preview: true, Version: getVersion()})
	if err != nil {
		return err
	}
	defer a.Close()
	a.Restore(ctx)
	return a.Serve(ctx)
}
