package rules

import (
	"fmt"
	"strings"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(DuplicateColumn)
}

// DuplicateColumn flags the same column expression projected twice.
var DuplicateColumn = lint.CheckDef{
	Type:        core.CheckDuplicateColumn,
	Name:        "defect.duplicate_column",
	Group:       lint.GroupDefect,
	Description: "Projecting the same expression twice is redundant and usually a mistake.",
	Severity:    core.SeverityWarning,
	Kinds:       []ast.NodeKind{ast.KindSelect},
	Check:       checkDuplicateColumn,

	Rationale: `A repeated output expression carries no extra information. It usually
survives a copy-paste edit that was meant to project a different column,
so the repeat hides a missing column rather than adding one.`,

	BadExample: `SELECT o.id, o.id FROM orders o`,

	GoodExample: `SELECT o.id, o.customer_id FROM orders o`,

	Fix: "Drop the repeated expression or change it to the column it was meant to be.",
}

func checkDuplicateColumn(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	sc, ok := ev.Node.(*ast.SelectCore)
	if !ok {
		return nil
	}
	seen := make(map[string]int)
	var out []core.Diagnostic
	for i, item := range sc.Columns {
		if item.Star || item.TableStar != "" || item.Expr == nil {
			continue
		}
		text := ast.ExprString(item.Expr)
		key := strings.ToLower(text)
		if first, dup := seen[key]; dup {
			out = append(out, diag(
				fmt.Sprintf("expression %s appears at positions %d and %d", text, first+1, i+1),
				"drop the repeated expression or change it to the intended column",
				fmt.Sprintf("%s.columns[%d]", ev.Path, i)))
			continue
		}
		seen[key] = i
	}
	return out
}
