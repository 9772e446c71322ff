package rules

import (
	"fmt"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(SelectStar)
}

// SelectStar flags stars in output lists.
var SelectStar = lint.CheckDef{
	Type:        core.CheckSelectStar,
	Name:        "defect.select_star",
	Group:       lint.GroupDefect,
	Description: "SELECT * hides the output contract and breaks when upstream columns change.",
	Severity:    core.SeverityWarning,
	Kinds:       []ast.NodeKind{ast.KindSelect},
	Check:       checkSelectStar,

	Rationale: `A star output list couples the query to whatever columns the source
happens to have. Adding, dropping, or reordering upstream columns silently
changes the result shape, which breaks downstream consumers and lineage.`,

	BadExample: `SELECT * FROM orders`,

	GoodExample: `SELECT order_id, customer_id, amount FROM orders`,

	Fix: "List the needed columns explicitly.",
}

func checkSelectStar(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	sc, ok := ev.Node.(*ast.SelectCore)
	if !ok {
		return nil
	}
	var out []core.Diagnostic
	for i, item := range sc.Columns {
		switch {
		case item.Star:
			out = append(out, diag(
				"SELECT * makes the output contract implicit",
				"list the needed columns explicitly",
				fmt.Sprintf("%s.columns[%d]", ev.Path, i)))
		case item.TableStar != "":
			out = append(out, diag(
				fmt.Sprintf("SELECT %s.* makes the output contract implicit", item.TableStar),
				"list the needed columns explicitly",
				fmt.Sprintf("%s.columns[%d]", ev.Path, i)))
		}
	}
	return out
}
