package rules

import (
	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(WhereOneEqualsOne)
}

// WhereOneEqualsOne flags constant comparisons in WHERE clauses.
var WhereOneEqualsOne = lint.CheckDef{
	Type:        core.CheckWhereTautology,
	Name:        "defect.where_1_equals_1",
	Group:       lint.GroupDefect,
	Description: "Constant comparisons in WHERE are leftovers from query templating.",
	Severity:    core.SeverityInfo,
	Kinds:       []ast.NodeKind{ast.KindWhere},
	Check:       checkWhereOneEqualsOne,

	Rationale: `Predicates like 1 = 1 exist so generated SQL can append AND clauses
unconditionally. In committed code they are noise and occasionally mask a
predicate that was meant to be filled in.`,

	BadExample: `SELECT * FROM orders WHERE 1 = 1 AND status = 'open'`,

	GoodExample: `SELECT * FROM orders WHERE status = 'open'`,

	Fix: "Remove the constant comparison.",
}

func checkWhereOneEqualsOne(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	expr, ok := ev.Node.(ast.Expr)
	if !ok {
		return nil
	}
	var out []core.Diagnostic
	ast.Walk(expr, func(node any) bool {
		b, ok := node.(*ast.BinaryExpr)
		if !ok {
			return true
		}
		if isComparisonOp(b.Op) && isLiteral(b.Left) && isLiteral(b.Right) {
			out = append(out, diag(
				"WHERE contains a constant comparison",
				"remove the constant predicate",
				ev.Path))
			return false
		}
		return true
	})
	return out
}

func isComparisonOp(op string) bool {
	switch op {
	case "=", "!=", "<>", "<", "<=", ">", ">=":
		return true
	}
	return false
}
