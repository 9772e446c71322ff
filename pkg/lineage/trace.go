// Package lineage resolves the output columns of a statement to the base
// table attributes they derive from. Lineage never terminates at an
// intermediate CTE or derived table: edges are substituted transitively
// until they bottom out at base tables or constants.
package lineage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/walker"
)

// Tracer produces attribute mappings for statements. Safe for concurrent
// use; each Trace call carries its own state.
type Tracer struct {
	logger *slog.Logger
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithLogger sets the logger used for trace progress.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracer) { t.logger = l }
}

// NewTracer creates a Tracer.
func NewTracer(opts ...Option) *Tracer {
	t := &Tracer{logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Trace returns one mapping per (output column, base source attribute)
// pair for the statement's final SELECT list. UNION branches produce
// alternative mappings onto the same target attribute. Columns that cannot
// be resolved are skipped with a diagnostic; the rest of the statement is
// still traced.
func (t *Tracer) Trace(stmt *ast.Statement, hints *core.SchemaHints) ([]core.AttributeMapping, []core.Diagnostic, error) {
	if stmt == nil || stmt.Select == nil {
		return nil, nil, core.ErrNilStatement
	}

	name := stmt.ID
	if name == "" {
		name = "result"
	}
	r := &traceRun{
		statementID: stmt.ID,
		edges:       make(map[*walker.Entry]map[string]*columnLineage),
	}

	scope := walker.NewScope(hints)
	branches := r.traceSelect(stmt.Select, scope, "select")

	targetEntityID := core.EntityID(name)
	var mappings []core.AttributeMapping
	for _, branch := range branches {
		for _, col := range branch {
			mappings = append(mappings, r.emit(targetEntityID, name, col)...)
		}
	}
	t.logger.Debug("lineage traced",
		"statement", stmt.ID,
		"mappings", len(mappings),
		"diagnostics", len(r.diags))
	return mappings, r.diags, nil
}

// columnLineage is the resolved lineage of one output column.
type columnLineage struct {
	Name           string
	Type           core.MappingType
	Transformation string
	Sources        []sourceAttr

	// Unresolved marks a column none of whose references resolved. The
	// column keeps its position so set-operation and declared-column
	// alignment stay intact, but it emits no mapping.
	Unresolved bool
}

// sourceAttr is a base-table attribute a column value flows from.
type sourceAttr struct {
	EntityID    string
	AttributeID string
}

type traceRun struct {
	statementID string
	diags       []core.Diagnostic

	// edges maps a bound CTE or derived-table scope entry to the lineage
	// of its output columns, keyed by lowercased column name. Alias
	// bindings share the underlying map.
	edges map[*walker.Entry]map[string]*columnLineage
}

func (r *traceRun) emit(targetEntityID, targetName string, col *columnLineage) []core.AttributeMapping {
	if col.Unresolved {
		return nil
	}
	targetAttrID := core.AttributeID(targetName, col.Name)
	if len(col.Sources) == 0 {
		return []core.AttributeMapping{{
			MappingID:         core.MappingID(targetAttrID, "", core.MappingConstant),
			TargetEntityID:    targetEntityID,
			TargetAttributeID: targetAttrID,
			MappingType:       core.MappingConstant,
			Transformation:    col.Transformation,
		}}
	}
	out := make([]core.AttributeMapping, 0, len(col.Sources))
	for _, src := range col.Sources {
		out = append(out, core.AttributeMapping{
			MappingID:         core.MappingID(targetAttrID, src.AttributeID, col.Type),
			TargetEntityID:    targetEntityID,
			TargetAttributeID: targetAttrID,
			SourceEntityID:    src.EntityID,
			SourceAttributeID: src.AttributeID,
			MappingType:       col.Type,
			Transformation:    col.Transformation,
		})
	}
	return out
}

// traceSelect resolves a SELECT level, binding its CTEs in declaration
// order, and returns the lineage of every set-operation branch. The first
// branch defines the output column names.
func (r *traceRun) traceSelect(sel *ast.SelectStmt, scope *walker.Scope, path string) [][]*columnLineage {
	if sel == nil {
		return nil
	}

	if sel.With != nil {
		for i, cte := range sel.With.CTEs {
			ctePath := fmt.Sprintf("%s.with.ctes[%d]", path, i)
			branches := r.traceSelect(cte.Select, scope.Child(), ctePath+".select")
			cols := mergeBranches(branches)
			if len(cte.Columns) > 0 {
				cols = renameColumns(cols, cte.Columns)
			}
			entry := scope.BindCTE(cte.Name, lineageNames(cols))
			r.edges[entry] = indexByName(cols)
		}
	}

	var branches [][]*columnLineage
	idx := 0
	for body := sel.Body; body != nil; body = body.Right {
		branchPath := path + ".body" + strings.Repeat(".right", idx) + ".left"
		cols := r.traceCore(body.Left, scope, branchPath)
		if idx > 0 && len(branches) > 0 {
			// UNION branch columns map positionally onto the names the
			// first branch declared.
			cols = alignToFirst(cols, branches[0])
		}
		if cols != nil {
			branches = append(branches, cols)
		}
		idx++
	}
	return branches
}

// traceCore binds the FROM items of one core and classifies each output
// column expression.
func (r *traceRun) traceCore(sc *ast.SelectCore, scope *walker.Scope, path string) []*columnLineage {
	if sc == nil {
		return nil
	}
	cs := scope.Child()
	if sc.From != nil {
		r.bindSource(sc.From.Source, scope, cs, path+".from.source")
		for i, join := range sc.From.Joins {
			r.bindSource(join.Right, scope, cs, fmt.Sprintf("%s.from.joins[%d]", path, i))
		}
	}

	outs := walker.OutputColumns(sc, cs)
	cols := make([]*columnLineage, 0, len(outs))
	for i, out := range outs {
		colPath := fmt.Sprintf("%s.columns[%d]", path, i)
		if out.Star {
			r.diag(fmt.Sprintf("cannot expand %s without schema hints: lineage for its columns skipped", out.Name), colPath)
			continue
		}
		cols = append(cols, r.classify(out, cs, colPath))
	}
	return cols
}

func (r *traceRun) bindSource(ref ast.TableRef, outer, cs *walker.Scope, path string) {
	switch t := ref.(type) {
	case *ast.TableName:
		if entry, ok := outer.LookupCTE(t.Name); ok {
			bound := cs.BindDerived(effectiveName(t), entry.Columns)
			bound.Type = walker.EntryCTE
			bound.Name = t.Name
			bound.Alias = t.Alias
			r.edges[bound] = r.edgesFor(entry)
			return
		}
		cs.BindTable(t.Name, t.Alias)

	case *ast.DerivedTable:
		branches := r.traceSelect(t.Select, outer.Child(), path+".select")
		cols := mergeBranches(branches)
		entry := cs.BindDerived(t.Alias, lineageNames(cols))
		r.edges[entry] = indexByName(cols)
	}
}

func (r *traceRun) edgesFor(entry *walker.Entry) map[string]*columnLineage {
	if m, ok := r.edges[entry]; ok {
		return m
	}
	return nil
}

// classify determines the mapping type of one output expression and
// resolves its leaf column references to base attributes.
func (r *traceRun) classify(out walker.OutputColumn, scope *walker.Scope, path string) *columnLineage {
	col := &columnLineage{Name: out.Name}
	expr := unwrapParens(out.Expr)
	refs := ast.CollectColumns(expr)

	switch {
	case len(refs) == 0:
		col.Type = core.MappingConstant
		col.Transformation = ast.ExprString(expr)
		return col

	case isBareColumn(expr):
		ref := expr.(*ast.ColumnRef)
		if strings.EqualFold(ref.Column, out.Name) {
			col.Type = core.MappingDirect
		} else {
			col.Type = core.MappingRename
		}

	case isAggregate(expr):
		col.Type = core.MappingAggregation
		col.Transformation = ast.ExprString(expr)

	default:
		col.Type = core.MappingDerived
		col.Transformation = ast.ExprString(expr)
	}

	failed := 0
	for _, ref := range refs {
		leaves, kind, ok := r.resolveLeaf(ref, scope, path)
		if !ok {
			failed++
			continue
		}
		col.Sources = append(col.Sources, leaves...)
		col.Type = composeType(col.Type, kind)
	}

	if len(col.Sources) == 0 {
		if failed > 0 {
			col.Unresolved = true
			return col
		}
		// Every reference reduced to constants upstream.
		if col.Type == core.MappingDirect || col.Type == core.MappingRename {
			col.Type = core.MappingConstant
			col.Transformation = ast.ExprString(expr)
		}
	}
	return col
}

// resolveLeaf resolves one column reference to base-table attributes,
// substituting CTE and derived-table lineage transitively. The returned
// mapping type reflects upstream transformations the substitution crossed.
func (r *traceRun) resolveLeaf(ref *ast.ColumnRef, scope *walker.Scope, path string) ([]sourceAttr, core.MappingType, bool) {
	entry, ok := scope.ResolveColumn(ref.Table, ref.Column)
	if !ok {
		r.diag(fmt.Sprintf("column %s cannot be resolved in scope: lineage edge skipped", refString(ref)), path)
		return nil, core.MappingDirect, false
	}

	if entry.Type == walker.EntryTable {
		return []sourceAttr{{
			EntityID:    core.EntityID(entry.Name),
			AttributeID: core.AttributeID(entry.Name, ref.Column),
		}}, core.MappingDirect, true
	}

	inner, ok := r.edgesFor(entry)[strings.ToLower(ref.Column)]
	if !ok {
		r.diag(fmt.Sprintf("column %s is not produced by %s: lineage edge skipped", refString(ref), entry.EffectiveName()), path)
		return nil, core.MappingDirect, false
	}
	return inner.Sources, inner.Type, true
}

func (r *traceRun) diag(msg, path string) {
	r.diags = append(r.diags, core.Diagnostic{
		CheckType: core.CheckUnresolvedReference,
		Severity:  core.SeverityWarning,
		Message:   msg,
		Location:  core.Location{StatementID: r.statementID, Path: path},
		GroupKey:  string(core.CheckUnresolvedReference) + "|" + path + "|" + msg,
	})
}

// composeType merges the classification of an outer expression with that of
// a substituted upstream edge: the strongest transformation wins, and a
// plain passthrough over an upstream constant stays constant.
func composeType(outer, inner core.MappingType) core.MappingType {
	rank := func(t core.MappingType) int {
		switch t {
		case core.MappingAggregation:
			return 4
		case core.MappingDerived:
			return 3
		case core.MappingRename:
			return 2
		default:
			return 1
		}
	}
	if inner == core.MappingConstant {
		return outer
	}
	if rank(inner) > rank(outer) {
		return inner
	}
	return outer
}

var aggregateFuncs = map[string]bool{
	"sum": true, "count": true, "avg": true, "min": true, "max": true,
	"string_agg": true, "array_agg": true, "listagg": true,
	"group_concat": true, "bool_and": true, "bool_or": true,
}

func isAggregate(expr ast.Expr) bool {
	f, ok := expr.(*ast.FuncCall)
	return ok && f.Window == nil && aggregateFuncs[strings.ToLower(f.Name)]
}

func isBareColumn(expr ast.Expr) bool {
	_, ok := expr.(*ast.ColumnRef)
	return ok
}

func unwrapParens(expr ast.Expr) ast.Expr {
	for {
		p, ok := expr.(*ast.ParenExpr)
		if !ok {
			return expr
		}
		expr = p.Expr
	}
}

func mergeBranches(branches [][]*columnLineage) []*columnLineage {
	if len(branches) == 0 {
		return nil
	}
	merged := branches[0]
	for _, branch := range branches[1:] {
		for i, col := range branch {
			if i < len(merged) {
				merged[i].Sources = append(merged[i].Sources, col.Sources...)
				merged[i].Type = composeType(merged[i].Type, col.Type)
			}
		}
	}
	return merged
}

func renameColumns(cols []*columnLineage, names []string) []*columnLineage {
	out := make([]*columnLineage, len(names))
	for i, name := range names {
		out[i] = &columnLineage{Name: name}
		if i < len(cols) {
			out[i].Type = cols[i].Type
			out[i].Transformation = cols[i].Transformation
			out[i].Sources = cols[i].Sources
		} else {
			out[i].Type = core.MappingConstant
		}
	}
	return out
}

func alignToFirst(cols, first []*columnLineage) []*columnLineage {
	for i, col := range cols {
		if i < len(first) {
			col.Name = first[i].Name
		}
	}
	return cols
}

func lineageNames(cols []*columnLineage) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func indexByName(cols []*columnLineage) map[string]*columnLineage {
	m := make(map[string]*columnLineage, len(cols))
	for _, c := range cols {
		m[strings.ToLower(c.Name)] = c
	}
	return m
}

func refString(ref *ast.ColumnRef) string {
	if ref.Table != "" {
		return ref.Table + "." + ref.Column
	}
	return ref.Column
}

func effectiveName(t *ast.TableName) string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}
