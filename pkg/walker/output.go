package walker

import (
	"fmt"
	"strings"

	"github.com/metastack-labs/metasql/pkg/ast"
)

// OutputColumn describes one column produced by a SELECT list after star
// expansion and alias resolution.
type OutputColumn struct {
	// Name is the output name: the alias, the column name, a lowercased
	// function name, or a positional fallback.
	Name string

	// Expr is the producing expression. For star-expanded columns it is a
	// synthesized column reference; nil only when the star could not be
	// expanded.
	Expr ast.Expr

	// Source is the scope entry a star-expanded column came from, nil for
	// explicit select items.
	Source *Entry

	// Star marks a bare star whose columns are unknown (no schema hints).
	Star bool
}

// OutputColumns resolves the output columns of a SELECT core against the
// scope its FROM items are bound in. Stars expand when column sets are
// known; an unexpandable star yields a single placeholder column.
func OutputColumns(sc *ast.SelectCore, scope *Scope) []OutputColumn {
	if sc == nil {
		return nil
	}
	var out []OutputColumn
	for _, item := range sc.Columns {
		switch {
		case item.Star:
			out = append(out, expandStar(scope, "")...)
		case item.TableStar != "":
			out = append(out, expandStar(scope, item.TableStar)...)
		default:
			out = append(out, OutputColumn{
				Name: OutputName(item, len(out)),
				Expr: item.Expr,
			})
		}
	}
	return out
}

func expandStar(scope *Scope, table string) []OutputColumn {
	stars := scope.ExpandStar(table)
	if len(stars) == 0 {
		name := "*"
		if table != "" {
			name = table + ".*"
		}
		return []OutputColumn{{Name: name, Star: true}}
	}
	out := make([]OutputColumn, len(stars))
	for i, s := range stars {
		out[i] = OutputColumn{
			Name:   s.Column,
			Expr:   &ast.ColumnRef{Table: s.Entry.EffectiveName(), Column: s.Column},
			Source: s.Entry,
		}
	}
	return out
}

// OutputName infers the output name of a select item: explicit alias, then
// the referenced column name, then the lowercased function name, then a
// positional placeholder.
func OutputName(item ast.SelectItem, position int) string {
	if item.Alias != "" {
		return item.Alias
	}
	switch e := item.Expr.(type) {
	case *ast.ColumnRef:
		return e.Column
	case *ast.FuncCall:
		return strings.ToLower(e.Name)
	case *ast.CastExpr:
		if c, ok := e.Expr.(*ast.ColumnRef); ok {
			return c.Column
		}
	}
	return fmt.Sprintf("col_%d", position+1)
}
