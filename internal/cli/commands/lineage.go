package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metastack-labs/metasql/pkg/analyzer"
)

// NewLineageCommand creates the lineage command.
func NewLineageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lineage <file|dir>...",
		Short: "Trace column-level lineage",
		Long: `Resolve every output column of a statement to the base-table
attributes it derives from. CTEs and derived tables are substituted
transitively, so edges always bottom out at base tables or constants.`,
		Example: `  metasql lineage orders.json
  metasql lineage ./statements -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := EnvFrom(cmd.Context())

			stmts, err := loadStatements(args)
			if err != nil {
				return err
			}

			a := analyzer.New(analyzer.WithLogger(env.Logger))
			hints := env.Config.SchemaHints()
			out := cmd.OutOrStdout()
			for _, stmt := range stmts {
				mappings, diags, err := a.TraceLineage(stmt, hints)
				if err != nil {
					return fmt.Errorf("statement %s: %w", stmt.ID, err)
				}
				if err := renderMappings(out, env.Config.Output, mappings); err != nil {
					return err
				}
				if len(diags) > 0 {
					if err := renderDiagnostics(out, env.Config.Output, diags); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}
