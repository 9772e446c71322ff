package rules

import (
	"fmt"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(MissingGroupBy)
}

// MissingGroupBy flags bare columns mixed with aggregates outside GROUP BY.
var MissingGroupBy = lint.CheckDef{
	Type:        core.CheckMissingGroupBy,
	Name:        "defect.missing_group_by",
	Group:       lint.GroupDefect,
	Description: "A bare column next to an aggregate needs a GROUP BY listing it.",
	Severity:    core.SeverityError,
	Kinds:       []ast.NodeKind{ast.KindSelect},
	Check:       checkMissingGroupBy,

	Rationale: `Mixing aggregated and non-aggregated columns without grouping either
fails outright or, on permissive engines, picks an arbitrary row's value
for the bare column. Both outcomes are defects.`,

	BadExample: `SELECT customer_id, SUM(amount) FROM orders`,

	GoodExample: `SELECT customer_id, SUM(amount) FROM orders GROUP BY customer_id`,

	Fix: "Add the bare columns to GROUP BY, or aggregate them.",
}

func checkMissingGroupBy(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	sc, ok := ev.Node.(*ast.SelectCore)
	if !ok || len(sc.GroupBy) > 0 {
		return nil
	}
	hasAggregate := false
	var bare []string
	for _, item := range sc.Columns {
		if item.Star || item.TableStar != "" || item.Expr == nil {
			continue
		}
		if containsAggregate(item.Expr) {
			hasAggregate = true
			continue
		}
		if len(ast.CollectColumns(item.Expr)) > 0 {
			bare = append(bare, walker.OutputName(item, len(bare)))
		}
	}
	if !hasAggregate || len(bare) == 0 {
		return nil
	}
	return []core.Diagnostic{diag(
		fmt.Sprintf("columns %v appear next to an aggregate without GROUP BY", bare),
		"add the bare columns to GROUP BY, or aggregate them",
		ev.Path)}
}
