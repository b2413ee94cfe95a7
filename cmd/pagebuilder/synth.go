package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pagebuilder/internal/mock"
)

// NewSynthCmd creates the synth command.
func NewSynthCmd(env *runtimeEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synth <kind>",
		Short: "Print one synthesized mock payload as JSON",
		Long: `Synth generates the payload a data-bound component of the given kind
would receive from a remote data source, without the simulated latency.

Examples:
  # A table with two columns
  pagebuilder synth table --column name --column status

  # A bar chart with monthly categories
  pagebuilder synth barChart --url /api/month

  # A form about orders
  pagebuilder synth form --url /api/order`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _ := cmd.Flags().GetString("url")
			columns, _ := cmd.Flags().GetStringSlice("column")
			fields, _ := cmd.Flags().GetStringSlice("field")

			synth := mock.NewSynthesizer(mock.Options{
				RowsMin: env.cfg.Mock.TableRowsMin,
				RowsMax: env.cfg.Mock.TableRowsMax,
			})
			data := synth.Synthesize(args[0], url, mock.Hints{Columns: columns, Fields: fields})

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if err := enc.Encode(data); err != nil {
				return fmt.Errorf("encode payload: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("url", "", "data source URL; its last path segment picks the vocabulary")
	cmd.Flags().StringSlice("column", nil, "table column key (repeatable)")
	cmd.Flags().StringSlice("field", nil, "form field name (repeatable)")
	return cmd
}
