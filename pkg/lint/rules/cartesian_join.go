package rules

import (
	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(CartesianJoin)
}

// CartesianJoin flags joins that multiply rows unconditionally.
var CartesianJoin = lint.CheckDef{
	Type:        core.CheckCartesianJoin,
	Name:        "defect.cartesian_join",
	Group:       lint.GroupDefect,
	Description: "A join without any predicate produces the cross product of both sides.",
	Severity:    core.SeverityError,
	Kinds:       []ast.NodeKind{ast.KindJoin},
	Check:       checkCartesianJoin,

	Rationale: `A join with no ON or USING clause pairs every row of one side with
every row of the other. On warehouse-sized tables that is almost never
intended and can exhaust the engine.`,

	BadExample: `SELECT * FROM orders JOIN customers`,

	GoodExample: `SELECT * FROM orders o JOIN customers c ON o.customer_id = c.customer_id`,

	Fix: "Add the join predicate, or write CROSS JOIN explicitly if the product is intended.",
}

func checkCartesianJoin(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	join, ok := ev.Node.(*ast.Join)
	if !ok {
		return nil
	}
	// CROSS JOIN states the intent; comma joins are covered separately.
	if join.Type == ast.JoinCross || join.Type == ast.JoinComma {
		return nil
	}
	if join.On != nil || len(join.Using) > 0 {
		return nil
	}
	return []core.Diagnostic{diag(
		"join has no ON or USING predicate and produces a cross product",
		"add the join predicate or write CROSS JOIN explicitly",
		ev.Path)}
}
