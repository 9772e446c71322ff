package determinism

import (
	"fmt"
	"strings"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(WindowNonUniqueOrder)
}

// navigationFuncs read neighboring rows and need a pinned order too.
var navigationFuncs = map[string]bool{
	"lag": true, "lead": true,
	"first_value": true, "last_value": true, "nth_value": true,
}

// WindowNonUniqueOrder flags window orderings that do not pin row order.
var WindowNonUniqueOrder = lint.CheckDef{
	Type:        core.CheckWindowNonUniqueOrder,
	Name:        "determinism.window_non_unique_order",
	Group:       lint.GroupDeterminism,
	Description: "A window ORDER BY that permits ties leaves tied rows in arbitrary order.",
	Severity:    core.SeverityWarning,
	Kinds:       []ast.NodeKind{ast.KindWindowFunc},
	Check:       checkWindowNonUniqueOrder,

	Rationale: `When the window order allows ties, rows inside a tie group are
returned in engine order, which can change between runs. The order is
judged unique only when the entity's known key columns are all part of it;
unknown keys are never assumed unique.`,

	BadExample: `SELECT ROW_NUMBER() OVER (ORDER BY created_date) AS rn FROM orders`,

	GoodExample: `SELECT ROW_NUMBER() OVER (ORDER BY created_date, order_id) AS rn FROM orders`,

	Fix: "Append a unique tie-breaker column to the window ORDER BY.",
}

func checkWindowNonUniqueOrder(ev walker.Event, ctx *lint.CheckContext) []core.Diagnostic {
	f, ok := ev.Node.(*ast.FuncCall)
	if !ok || f.Window == nil || len(f.Window.OrderBy) == 0 {
		return nil
	}
	name := strings.ToLower(f.Name)
	if !rankingFuncs[name] && !navigationFuncs[name] {
		return nil
	}

	orderCols := make(map[string]bool)
	var ordered []string
	for _, item := range f.Window.OrderBy {
		if ref, ok := item.Expr.(*ast.ColumnRef); ok {
			orderCols[strings.ToLower(ref.Column)] = true
			ordered = append(ordered, ref.Column)
		}
	}

	entry := orderEntity(ev.Scope, f.Window)
	keys := entityKeys(ev.Scope, entry)

	if len(keys) > 0 {
		if subset(keys, orderCols) {
			return nil
		}
		suggestion := SuggestTieBreaker(entityColumns(entry), keys, ordered)
		return []core.Diagnostic{{
			Message: fmt.Sprintf("%s window ORDER BY does not cover the key of %s, tied rows order arbitrarily",
				strings.ToUpper(f.Name), entry.EffectiveName()),
			Suggestion: tieSuggestion(suggestion),
			Location:   core.Location{Path: ev.Path},
		}}
	}

	// Full attribute set in the order also pins the row.
	if entry != nil && len(entry.Columns) > 0 && subset(entry.Columns, orderCols) {
		return nil
	}
	if ctx != nil && ctx.Config != nil && ctx.Config.AssumeUniqueWhenUnknown {
		return nil
	}
	return []core.Diagnostic{{
		Message: fmt.Sprintf("%s window ORDER BY uniqueness cannot be verified without key information, ties may order arbitrarily",
			strings.ToUpper(f.Name)),
		Suggestion: tieSuggestion(SuggestTieBreaker(entityColumns(entry), nil, ordered)),
		Location:   core.Location{Path: ev.Path},
	}}
}

// orderEntity resolves the entity the window ordering refers to: the entity
// of the first order column, falling back to the sole bound source.
func orderEntity(scope *walker.Scope, spec *ast.WindowSpec) *walker.Entry {
	for _, item := range spec.OrderBy {
		if ref, ok := item.Expr.(*ast.ColumnRef); ok {
			if entry, ok := scope.ResolveColumn(ref.Table, ref.Column); ok {
				return entry
			}
		}
	}
	if entries := scope.Entries(); len(entries) == 1 {
		return entries[0]
	}
	return nil
}

func entityKeys(scope *walker.Scope, entry *walker.Entry) []string {
	if entry == nil || entry.Type != walker.EntryTable || scope.Hints() == nil {
		return nil
	}
	return scope.Hints().PrimaryKey(entry.Name)
}

func entityColumns(entry *walker.Entry) []string {
	if entry == nil {
		return nil
	}
	return entry.Columns
}

func subset(needed []string, have map[string]bool) bool {
	for _, n := range needed {
		if !have[strings.ToLower(n)] {
			return false
		}
	}
	return true
}

func tieSuggestion(col string) string {
	if col == "" {
		return "no tie-breaker candidate found, supply a unique column manually"
	}
	return fmt.Sprintf("append %s to the window ORDER BY as a tie breaker", col)
}
