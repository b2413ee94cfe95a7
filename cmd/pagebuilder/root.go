package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pagebuilder/internal/config"
	"pagebuilder/internal/observability"
)

// runtimeEnv is filled in by the root command before any subcommand runs.
type runtimeEnv struct {
	cfgFile string
	verbose bool
	cfg     *config.Config
	log     *zap.Logger
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	env := &runtimeEnv{}
	cmd := &cobra.Command{
		Use:   "pagebuilder",
		Short: "Low-code page builder engine",
		Long: `pagebuilder keeps a tree of UI components, resolves forms and their
submission data, feeds data-bound components with mock data, and saves the
page to a storage slot.

Edit the page over HTTP with live preview (serve) or let an AI agent drive
it over MCP (mcp).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.init()
		},
	}

	cmd.PersistentFlags().StringVarP(&env.cfgFile, "config", "c", "", "config file (default is ./pagebuilder.yaml)")
	cmd.PersistentFlags().BoolVarP(&env.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewServeCmd(env))
	cmd.AddCommand(NewMCPCmd(env))
	cmd.AddCommand(NewCatalogCmd())
	cmd.AddCommand(NewSynthCmd(env))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func (e *runtimeEnv) init() error {
	cfg, err := config.Load(e.cfgFile)
	if err != nil {
		observability.Install(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "pagebuilder"})
		return err
	}
	if e.verbose {
		cfg.Logger.Level = "debug"
	}
	e.cfg = cfg
	e.log = observability.Install(cfg.Logger)
	e.log.Debug("configuration loaded", zap.String("driver", cfg.Storage.Driver), zap.String("version", getVersion()))
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		observability.Logger().Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
