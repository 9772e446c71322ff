package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metastack-labs/metasql/pkg/analyzer"
	"github.com/metastack-labs/metasql/pkg/core"
)

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	var failOn string

	cmd := &cobra.Command{
		Use:   "analyze <file|dir>...",
		Short: "Run all checks over statements",
		Long: `Run every enabled check over the given statements and report the
findings. Statements are analyzed in parallel, bounded by --concurrency;
output order follows the input order regardless.`,
		Example: `  # Analyze one statement
  metasql analyze orders.json

  # Analyze a directory of statements as JSON
  metasql analyze ./statements -o json

  # Fail the build on warnings too
  metasql analyze ./statements --fail-on warning`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := EnvFrom(cmd.Context())

			threshold, ok := core.ParseSeverity(failOn)
			if !ok {
				return fmt.Errorf("unknown severity %q for --fail-on", failOn)
			}

			stmts, err := loadStatements(args)
			if err != nil {
				return err
			}

			lintCfg, err := env.Config.LintConfig()
			if err != nil {
				return err
			}
			a := analyzer.New(
				analyzer.WithConfig(lintCfg),
				analyzer.WithLogger(env.Logger),
			)

			results, err := a.Batch(cmd.Context(), stmts, env.Config.SchemaHints(), env.Config.Concurrency)
			if err != nil {
				return err
			}

			var diags []core.Diagnostic
			failing := 0
			for _, res := range results {
				if res.Err != nil {
					return fmt.Errorf("statement %s: %w", res.StatementID, res.Err)
				}
				for _, d := range res.Diagnostics {
					diags = append(diags, d)
					if d.Severity <= threshold {
						failing++
					}
				}
			}

			if err := renderDiagnostics(cmd.OutOrStdout(), env.Config.Output, diags); err != nil {
				return err
			}
			if failing > 0 {
				return fmt.Errorf("%d finding(s) at or above %s severity", failing, threshold)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&failOn, "fail-on", "error", "exit non-zero at this severity or above: error, warning, info")
	return cmd
}
