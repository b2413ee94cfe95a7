package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pagebuilder/internal/catalog"
	"pagebuilder/internal/domain"
)

// catalogDoc is the YAML view of the palette, in display order.
type catalogDoc struct {
	Groups []catalogGroup `yaml:"groups"`
}

type catalogGroup struct {
	Name       catalog.Group                `yaml:"name"`
	Components []domain.ComponentDefinition `yaml:"components"`
}

// NewCatalogCmd creates the catalog command.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog [type]",
		Short: "Print the component catalog as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v any = buildCatalogDoc()
			if len(args) == 1 {
				def, ok := catalog.Lookup(args[0])
				if !ok {
					return fmt.Errorf("unknown component type: %q", args[0])
				}
				v = def
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return fmt.Errorf("encode catalog: %w", err)
			}
			return enc.Close()
		},
	}
	// The catalog is static; skip config loading.
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error { return nil }
	return cmd
}

func buildCatalogDoc() catalogDoc {
	grouped := catalog.Grouped()
	var doc catalogDoc
	for _, g := range []catalog.Group{catalog.GroupContainer, catalog.GroupBasic, catalog.GroupAdvanced} {
		doc.Groups = append(doc.Groups, catalogGroup{Name: g, Components: grouped[g]})
	}
	return doc
}
