package rules

import (
	"fmt"
	"strings"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(FunctionInWhere)
}

// FunctionInWhere flags functions applied to columns in filter predicates.
var FunctionInWhere = lint.CheckDef{
	Type:        core.CheckFunctionInWhere,
	Name:        "defect.function_in_where",
	Group:       lint.GroupDefect,
	Description: "A function over a filtered column blocks index and partition pruning.",
	Severity:    core.SeverityWarning,
	Kinds:       []ast.NodeKind{ast.KindWhere},
	Check:       checkFunctionInWhere,

	Rationale: `Wrapping the column side of a predicate in a function forces the engine
to evaluate it per row, so indexes and partition pruning on that column no
longer apply. Moving the transformation to the literal side keeps the
column bare.`,

	BadExample: `SELECT * FROM orders WHERE DATE(created_at) = '2024-01-01'`,

	GoodExample: `SELECT * FROM orders
WHERE created_at >= '2024-01-01' AND created_at < '2024-01-02'`,

	Fix: "Rewrite the predicate so the column appears unwrapped and the transformation applies to the constant side.",
}

var comparisonOps = map[string]bool{
	"=": true, "!=": true, "<>": true,
	"<": true, "<=": true, ">": true, ">=": true,
	"like": true,
}

func checkFunctionInWhere(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	expr, ok := ev.Node.(ast.Expr)
	if !ok {
		return nil
	}
	var out []core.Diagnostic
	ast.Walk(expr, func(node any) bool {
		switch node.(type) {
		case *ast.SubqueryExpr, *ast.ExistsExpr:
			// Inner WHERE clauses raise their own events.
			return false
		}
		b, ok := node.(*ast.BinaryExpr)
		if !ok || !comparisonOps[strings.ToLower(b.Op)] {
			return true
		}
		f, other := funcOverColumn(b.Left), b.Right
		if f == nil {
			f, other = funcOverColumn(b.Right), b.Left
		}
		if f == nil || !isLiteral(unparen(other)) {
			return true
		}
		out = append(out, core.Diagnostic{
			Message:    fmt.Sprintf("%s over a column compared to a literal in WHERE blocks index use", strings.ToUpper(f.Name)),
			Suggestion: "rewrite so the column appears unwrapped and the transformation applies to the constant side",
			Location:   core.Location{Path: ev.Path},
			GroupKey:   fmt.Sprintf("%s|%s|%s", core.CheckFunctionInWhere, ev.Path, strings.ToLower(ast.ExprString(b))),
		})
		return true
	})
	return out
}

// funcOverColumn returns the expression as a function call when it wraps at
// least one column reference.
func funcOverColumn(expr ast.Expr) *ast.FuncCall {
	f, ok := unparen(expr).(*ast.FuncCall)
	if !ok || len(ast.CollectColumns(f)) == 0 {
		return nil
	}
	return f
}
