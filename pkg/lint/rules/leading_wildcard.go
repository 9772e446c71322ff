package rules

import (
	"strings"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(LeadingWildcard)
}

// LeadingWildcard flags LIKE patterns that start with a wildcard.
var LeadingWildcard = lint.CheckDef{
	Type:        core.CheckLeadingWildcard,
	Name:        "defect.leading_wildcard",
	Group:       lint.GroupDefect,
	Description: "LIKE '%...' forces a full scan; no index can serve a leading wildcard.",
	Severity:    core.SeverityWarning,
	Kinds:       []ast.NodeKind{ast.KindWhere},
	Check:       checkLeadingWildcard,

	Rationale: `A pattern starting with % or _ cannot be anchored, so the engine scans
every row. On large tables this dominates query cost. Full-text or reversed
columns serve suffix searches without scanning.`,

	BadExample: `SELECT * FROM customers WHERE email LIKE '%@example.com'`,

	GoodExample: `SELECT * FROM customers WHERE email_domain = 'example.com'`,

	Fix: "Anchor the pattern, search a derived column, or use a full-text index.",
}

func checkLeadingWildcard(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	expr, ok := ev.Node.(ast.Expr)
	if !ok {
		return nil
	}
	var out []core.Diagnostic
	ast.Walk(expr, func(node any) bool {
		like, ok := node.(*ast.LikeExpr)
		if !ok {
			return true
		}
		lit, ok := like.Pattern.(*ast.Literal)
		if !ok || lit.Type != ast.LiteralString {
			return true
		}
		if strings.HasPrefix(lit.Value, "%") || strings.HasPrefix(lit.Value, "_") {
			out = append(out, diag(
				"LIKE pattern starts with a wildcard and cannot use an index",
				"anchor the pattern or search a derived column",
				ev.Path))
		}
		return true
	})
	return out
}
