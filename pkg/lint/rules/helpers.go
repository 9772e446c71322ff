package rules

import (
	"strings"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
)

func diag(msg, suggestion, path string) core.Diagnostic {
	return core.Diagnostic{
		Message:    msg,
		Suggestion: suggestion,
		Location:   core.Location{Path: path},
	}
}

// unparen unwraps grouping parentheses.
func unparen(expr ast.Expr) ast.Expr {
	for {
		p, ok := expr.(*ast.ParenExpr)
		if !ok {
			return expr
		}
		expr = p.Expr
	}
}

// topLevelOr reports whether the outermost boolean operator is OR.
func topLevelOr(expr ast.Expr) bool {
	b, ok := unparen(expr).(*ast.BinaryExpr)
	return ok && strings.EqualFold(b.Op, "OR")
}

// aggregateFuncs are functions that collapse groups into single values.
var aggregateFuncs = map[string]bool{
	"sum": true, "count": true, "avg": true, "min": true, "max": true,
	"string_agg": true, "array_agg": true, "listagg": true,
	"group_concat": true, "bool_and": true, "bool_or": true,
}

func isAggregateCall(node any) bool {
	f, ok := node.(*ast.FuncCall)
	return ok && f.Window == nil && aggregateFuncs[strings.ToLower(f.Name)]
}

// containsAggregate reports whether any aggregate call appears in the
// expression, ignoring window functions.
func containsAggregate(expr ast.Expr) bool {
	found := false
	ast.Walk(expr, func(node any) bool {
		if isAggregateCall(node) {
			found = true
			return false
		}
		return !found
	})
	return found
}

func isLiteral(expr ast.Expr) bool {
	_, ok := expr.(*ast.Literal)
	return ok
}
