package rules

import (
	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(DistinctStar)
}

// DistinctStar flags DISTINCT over a star output list.
var DistinctStar = lint.CheckDef{
	Type:        core.CheckDistinctStar,
	Name:        "defect.distinct_star",
	Group:       lint.GroupDefect,
	Description: "DISTINCT * deduplicates entire rows, which rarely matches the intent.",
	Severity:    core.SeverityWarning,
	Kinds:       []ast.NodeKind{ast.KindSelect},
	Check:       checkDistinctStar,

	Rationale: `DISTINCT over all columns usually papers over a join that multiplied
rows. The deduplication cost grows with every column, and a new upstream
column can silently reintroduce duplicates.`,

	BadExample: `SELECT DISTINCT * FROM orders o JOIN order_items i ON o.order_id = i.order_id`,

	GoodExample: `SELECT DISTINCT o.order_id, o.customer_id FROM orders o`,

	Fix: "Deduplicate on the key columns that define uniqueness, or fix the join that multiplies rows.",
}

func checkDistinctStar(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	sc, ok := ev.Node.(*ast.SelectCore)
	if !ok || !sc.Distinct {
		return nil
	}
	for _, item := range sc.Columns {
		if item.Star || item.TableStar != "" {
			return []core.Diagnostic{diag(
				"DISTINCT * deduplicates entire rows",
				"deduplicate on explicit key columns instead",
				ev.Path)}
		}
	}
	return nil
}
