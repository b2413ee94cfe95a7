package main

import (
	"github.com/spf13/cobra"

	"pagebuilder/internal/app"
)

// NewMCPCmd creates the mcp command.
func NewMCPCmd(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run a stdio MCP server for AI agents",
		Long: `MCP restores the saved page and serves tools, resources and prompts on
stdin/stdout so an agent can compose the page. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := app.New(ctx, env.cfg, env.log, app.Options{Version: getVersion()})
			if err != nil {
				return err
			}
			defer a.Close()
			a.Restore(ctx)
			return a.ServeMCP()
		},
	}
}
