package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metastack-labs/metasql/pkg/analyzer"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file|dir>...",
		Short: "Extract entities, attributes, and relationships",
		Long: `Build metadata records from statements: one entity per base table,
CTE, and final result set, attributes in output order, and relationships
derived from equi-join predicates.`,
		Example: `  metasql extract orders.json
  metasql extract ./statements -o json`,
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
				md, diags, err := a.Extract(stmt, hints)
				if err != nil {
					return fmt.Errorf("statement %s: %w", stmt.ID, err)
				}
				if err := renderMetadata(out, env.Config.Output, md); err != nil {
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
