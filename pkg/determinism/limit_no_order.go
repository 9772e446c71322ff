package determinism

import (
	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(LimitNoOrder)
}

// LimitNoOrder flags LIMIT clauses on queries without an outer ORDER BY.
var LimitNoOrder = lint.CheckDef{
	Type:        core.CheckLimitNoOrder,
	Name:        "determinism.limit_no_order",
	Group:       lint.GroupDeterminism,
	Description: "LIMIT without ORDER BY keeps an arbitrary subset of rows.",
	Severity:    core.SeverityError,
	Kinds:       []ast.NodeKind{ast.KindLimit},
	Check:       checkLimitNoOrder,

	Rationale: `Which rows survive a LIMIT is defined by the outer order. Without
one, the kept subset follows storage and plan details and can differ
between runs on identical data.`,

	BadExample: `SELECT customer_id, amount FROM orders LIMIT 100`,

	GoodExample: `SELECT customer_id, amount FROM orders ORDER BY order_id LIMIT 100`,

	Fix: "Add an ORDER BY over a unique key before the LIMIT.",
}

func checkLimitNoOrder(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	sc, ok := ev.Node.(*ast.SelectCore)
	if !ok || sc.Limit == nil || len(sc.OrderBy) > 0 {
		return nil
	}

	var suggestion string
	if entries := ev.Scope.Entries(); len(entries) == 1 {
		entry := entries[0]
		if col := SuggestTieBreaker(entry.Columns, entityKeys(ev.Scope, entry), nil); col != "" {
			suggestion = "add ORDER BY " + col + " before the LIMIT"
		}
	}
	if suggestion == "" {
		suggestion = "no tie-breaker candidate found, supply a unique ORDER BY column manually"
	}
	return []core.Diagnostic{{
		Message:    "LIMIT without ORDER BY keeps an arbitrary subset of rows",
		Suggestion: suggestion,
		Location:   core.Location{Path: ev.Path},
	}}
}
