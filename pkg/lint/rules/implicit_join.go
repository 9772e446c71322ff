package rules

import (
	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(ImplicitJoin)
}

// ImplicitJoin flags comma-separated FROM items.
var ImplicitJoin = lint.CheckDef{
	Type:        core.CheckImplicitJoin,
	Name:        "defect.implicit_join",
	Group:       lint.GroupDefect,
	Description: "Comma joins hide the join condition in the WHERE clause.",
	Severity:    core.SeverityWarning,
	Kinds:       []ast.NodeKind{ast.KindJoin},
	Check:       checkImplicitJoin,

	Rationale: `With comma joins the join predicate lives in WHERE, far from the tables
it connects. Deleting or forgetting that predicate turns the query into a
cartesian product without any syntactic hint.`,

	BadExample: `SELECT * FROM orders o, customers c WHERE o.customer_id = c.customer_id`,

	GoodExample: `SELECT * FROM orders o JOIN customers c ON o.customer_id = c.customer_id`,

	Fix: "Rewrite with explicit JOIN ... ON syntax.",
}

func checkImplicitJoin(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	join, ok := ev.Node.(*ast.Join)
	if !ok || join.Type != ast.JoinComma {
		return nil
	}
	return []core.Diagnostic{diag(
		"comma join separates tables from their join condition",
		"rewrite with explicit JOIN ... ON",
		ev.Path)}
}
