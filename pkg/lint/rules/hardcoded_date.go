package rules

import (
	"fmt"
	"regexp"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(HardcodedDate)
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([ T]\d{2}:\d{2})?`)

// HardcodedDate flags date literals in filter predicates.
var HardcodedDate = lint.CheckDef{
	Type:        core.CheckHardcodedDate,
	Name:        "defect.hardcoded_date",
	Group:       lint.GroupDefect,
	Description: "A literal date in a filter goes stale the day after it is written.",
	Severity:    core.SeverityInfo,
	Kinds:       []ast.NodeKind{ast.KindLiteral},
	Check:       checkHardcodedDate,

	Rationale: `Fixed dates in filters encode a moment in time into the query. The
query silently returns less and less data as time passes. Parameterize the
boundary or derive it from a reference date.`,

	BadExample: `SELECT * FROM orders WHERE created_at >= '2024-01-01'`,

	GoodExample: `SELECT * FROM orders WHERE created_at >= :window_start`,

	Fix: "Replace the literal with a parameter or a derived date expression.",
}

func checkHardcodedDate(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	if ev.Clause != walker.ClauseWhere && ev.Clause != walker.ClauseHaving && ev.Clause != walker.ClauseJoinOn {
		return nil
	}
	lit, ok := ev.Node.(*ast.Literal)
	if !ok {
		return nil
	}
	isDate := lit.Type == ast.LiteralDate || lit.Type == ast.LiteralTimestamp ||
		(lit.Type == ast.LiteralString && datePattern.MatchString(lit.Value))
	if !isDate {
		return nil
	}
	return []core.Diagnostic{{
		Message:    fmt.Sprintf("filter compares against hardcoded date %q", lit.Value),
		Suggestion: "parameterize the date or derive it from a reference date",
		Location:   core.Location{Path: ev.Path},
		GroupKey:   fmt.Sprintf("%s|%s|%s", core.CheckHardcodedDate, ev.Path, lit.Value),
	}}
}
