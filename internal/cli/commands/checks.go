package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"

	// Register all checks.
	_ "github.com/metastack-labs/metasql/pkg/determinism"
	_ "github.com/metastack-labs/metasql/pkg/lint/rules"
)

// NewChecksCommand creates the checks command.
func NewChecksCommand() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List all available checks",
		Long: `List the fixed catalog of check types, their groups, default
severities, and descriptions. Use --long for rationale and examples.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env := EnvFrom(cmd.Context())
			out := cmd.OutOrStdout()

			checks := lint.GetAll()
			if env.Config.Output == "json" {
				docs := make([]core.CheckInfo, 0, len(checks))
				for _, c := range checks {
					info := core.CheckInfo{
						Type:            c.Type,
						Name:            c.Name,
						Group:           c.Group,
						Description:     c.Description,
						DefaultSeverity: c.Severity,
					}
					if long {
						info.Rationale = c.Rationale
						info.BadExample = c.BadExample
						info.GoodExample = c.GoodExample
						info.Fix = c.Fix
					}
					docs = append(docs, info)
				}
				return renderJSON(out, docs)
			}

			t := newTable(out, "Check", "Group", "Severity", "Description")
			for _, c := range checks {
				t.AppendRow(table.Row{string(c.Type), c.Group, c.Severity.String(), c.Description})
			}
			t.Render()
			fmt.Fprintf(out, "\n%d checks available (%d including structural).\n",
				lint.Count(), len(lint.AllCheckTypes()))

			if long {
				for _, c := range checks {
					fmt.Fprintf(out, "\n%s (%s)\n", c.Type, c.Name)
					fmt.Fprintf(out, "  %s\n", c.Rationale)
					if c.BadExample != "" {
						fmt.Fprintf(out, "  Bad:\n    %s\n", c.BadExample)
					}
					if c.GoodExample != "" {
						fmt.Fprintf(out, "  Good:\n    %s\n", c.GoodExample)
					}
					if c.Fix != "" {
						fmt.Fprintf(out, "  Fix: %s\n", c.Fix)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "include rationale and examples")
	return cmd
}
