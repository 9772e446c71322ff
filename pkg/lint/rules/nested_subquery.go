package rules

import (
	"fmt"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(NestedSubquery)
}

// maxSubqueryDepth is the nesting level at which subqueries get flagged.
const maxSubqueryDepth = 3

// NestedSubquery flags deeply nested subqueries.
var NestedSubquery = lint.CheckDef{
	Type:        core.CheckNestedSubquery,
	Name:        "defect.nested_subquery",
	Group:       lint.GroupDefect,
	Description: "Deep subquery nesting hides the data flow; CTEs name the steps.",
	Severity:    core.SeverityInfo,
	Kinds:       []ast.NodeKind{ast.KindSelect},
	Check:       checkNestedSubquery,

	Rationale: `Three or more levels of inline nesting force readers to resolve the
query inside out. The same steps as a CTE chain read top down and each
step gets a name that lineage and debugging can reference.`,

	BadExample: `SELECT * FROM (SELECT * FROM (SELECT * FROM (SELECT * FROM orders) a) b) c`,

	GoodExample: `WITH raw AS (SELECT * FROM orders),
cleaned AS (SELECT * FROM raw)
SELECT * FROM cleaned`,

	Fix: "Extract inner subqueries into named CTEs.",
}

func checkNestedSubquery(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	if _, ok := ev.Node.(*ast.SelectCore); !ok {
		return nil
	}
	if ev.Depth < maxSubqueryDepth {
		return nil
	}
	return []core.Diagnostic{diag(
		fmt.Sprintf("subquery nested %d levels deep", ev.Depth),
		"extract inner subqueries into named CTEs",
		ev.Path)}
}
