package rules

import (
	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(OrInJoin)
}

// OrInJoin flags join predicates whose top-level operator is OR.
var OrInJoin = lint.CheckDef{
	Type:        core.CheckOrInJoin,
	Name:        "defect.or_in_join",
	Group:       lint.GroupDefect,
	Description: "OR in a join predicate prevents key-based matching and can multiply rows.",
	Severity:    core.SeverityWarning,
	Kinds:       []ast.NodeKind{ast.KindJoin},
	Check:       checkOrInJoin,

	Rationale: `A disjunctive join predicate matches a row on either branch, so one
left row can pair with rows satisfying different branches. Optimizers fall
back to nested loops, and the result often carries unintended duplicates.`,

	BadExample: `SELECT *
FROM orders o
JOIN customers c ON o.customer_id = c.customer_id OR o.email = c.email`,

	GoodExample: `SELECT * FROM orders o JOIN customers c ON o.customer_id = c.customer_id
UNION
SELECT * FROM orders o JOIN customers c ON o.email = c.email`,

	Fix: "Split the disjunction into separate joins combined with UNION, or normalize the matching key upstream.",
}

func checkOrInJoin(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	join, ok := ev.Node.(*ast.Join)
	if !ok || join.On == nil || !topLevelOr(join.On) {
		return nil
	}
	return []core.Diagnostic{diag(
		"join predicate is an OR disjunction, which defeats key matching",
		"split into separate joins combined with UNION",
		ev.Path+".on")}
}
