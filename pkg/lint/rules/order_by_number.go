package rules

import (
	"fmt"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(OrderByNumber)
}

// OrderByNumber flags positional ORDER BY references.
var OrderByNumber = lint.CheckDef{
	Type:        core.CheckOrderByNumber,
	Name:        "defect.order_by_number",
	Group:       lint.GroupDefect,
	Description: "Ordinal ORDER BY silently changes meaning when the output list changes.",
	Severity:    core.SeverityWarning,
	Kinds:       []ast.NodeKind{ast.KindOrderBy},
	Check:       checkOrderByNumber,

	Rationale: `ORDER BY 2 orders by whatever currently sits in position two. Adding or
reordering output columns changes the sort without touching the ORDER BY,
which reviews rarely catch.`,

	BadExample: `SELECT customer_id, amount FROM orders ORDER BY 2 DESC`,

	GoodExample: `SELECT customer_id, amount FROM orders ORDER BY amount DESC`,

	Fix: "Order by the column name or alias instead of its position.",
}

func checkOrderByNumber(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	sc, ok := ev.Node.(*ast.SelectCore)
	if !ok {
		return nil
	}
	var out []core.Diagnostic
	for i, item := range sc.OrderBy {
		lit, ok := item.Expr.(*ast.Literal)
		if !ok || lit.Type != ast.LiteralNumber {
			continue
		}
		out = append(out, diag(
			fmt.Sprintf("ORDER BY position %s depends on output list order", lit.Value),
			"order by the column name or alias",
			fmt.Sprintf("%s[%d]", ev.Path, i)))
	}
	return out
}
