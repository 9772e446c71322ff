package walker

import (
	"fmt"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
)

// Clause identifies which clause of a SELECT an event was raised in.
type Clause int

// Clause constants.
const (
	ClauseNone Clause = iota
	ClauseSelectList
	ClauseWhere
	ClauseGroupBy
	ClauseHaving
	ClauseOrderBy
	ClauseLimit
	ClauseJoinOn
)

// Event is delivered to registered callbacks as the walker visits a node.
// The scope snapshot is read-only: callbacks must not bind into it.
type Event struct {
	Node        any
	Kind        ast.NodeKind
	Clause      Clause
	Path        string
	Scope       *Scope
	Depth       int // subquery nesting depth, statement root = 0
	StatementID string
}

// Callback receives events for the node kinds it was registered against.
type Callback func(ev Event)

// Walker traverses a statement once, depth-first pre-order, invoking
// callbacks per node kind and maintaining the scope stack. Traversal order
// is deterministic (left-to-right, outer-to-inner) so downstream output is
// reproducible across runs on identical input.
type Walker struct {
	callbacks map[ast.NodeKind][]Callback
}

// New creates a walker with no callbacks registered.
func New() *Walker {
	return &Walker{callbacks: make(map[ast.NodeKind][]Callback)}
}

// On registers a callback for one or more node kinds.
func (w *Walker) On(cb Callback, kinds ...ast.NodeKind) {
	for _, k := range kinds {
		w.callbacks[k] = append(w.callbacks[k], cb)
	}
}

// Walk traverses the statement and returns structural diagnostics
// (unresolved CTE references, unknown node kinds). Callback panics are the
// caller's concern: the rule engine wraps its callbacks.
func (w *Walker) Walk(stmt *ast.Statement, hints *core.SchemaHints) []core.Diagnostic {
	if stmt == nil || stmt.Select == nil {
		return nil
	}
	run := &walkRun{
		walker:      w,
		statementID: stmt.ID,
	}
	root := NewScope(hints)
	run.walkSelect(stmt.Select, root, "select", 0)
	return run.diags
}

// walkRun holds the mutable state of one traversal.
type walkRun struct {
	walker      *Walker
	statementID string
	diags       []core.Diagnostic
	pending     []map[string]bool // stack of declared-but-unbound CTE names
}

func (r *walkRun) emit(node any, kind ast.NodeKind, clause Clause, path string, scope *Scope, depth int) {
	for _, cb := range r.walker.callbacks[kind] {
		cb(Event{
			Node:        node,
			Kind:        kind,
			Clause:      clause,
			Path:        path,
			Scope:       scope,
			Depth:       depth,
			StatementID: r.statementID,
		})
	}
}

func (r *walkRun) structural(check core.CheckType, severity core.Severity, msg, path string) {
	r.diags = append(r.diags, core.Diagnostic{
		CheckType: check,
		Severity:  severity,
		Message:   msg,
		Location:  core.Location{StatementID: r.statementID, Path: path},
		GroupKey:  string(check) + "|" + path + "|" + msg,
	})
}

// isPendingCTE reports whether name is declared in an enclosing WITH clause
// but not yet bound (forward or self reference).
func (r *walkRun) isPendingCTE(name string) bool {
	key := normalize(name)
	for i := len(r.pending) - 1; i >= 0; i-- {
		if r.pending[i][key] {
			return true
		}
	}
	return false
}

// walkSelect processes one SELECT statement level and returns the output
// columns of its leftmost core, which become the columns of an enclosing
// CTE or derived table.
func (r *walkRun) walkSelect(sel *ast.SelectStmt, scope *Scope, path string, depth int) []OutputColumn {
	if sel == nil {
		return nil
	}

	if sel.With != nil && len(sel.With.CTEs) > 0 {
		pending := make(map[string]bool, len(sel.With.CTEs))
		for _, cte := range sel.With.CTEs {
			pending[normalize(cte.Name)] = true
		}
		r.pending = append(r.pending, pending)

		for i, cte := range sel.With.CTEs {
			ctePath := fmt.Sprintf("%s.with.ctes[%d]", path, i)

			// The CTE body sees earlier CTEs (already bound in scope)
			// but never later ones or itself.
			cols := r.walkSelect(cte.Select, scope.Child(), ctePath+".select", depth)
			if len(cte.Columns) > 0 {
				declared := make([]OutputColumn, len(cte.Columns))
				for j, name := range cte.Columns {
					declared[j] = OutputColumn{Name: name}
					if j < len(cols) {
						declared[j].Expr = cols[j].Expr
						declared[j].Source = cols[j].Source
					}
				}
				cols = declared
			}
			delete(pending, normalize(cte.Name))
			scope.BindCTE(cte.Name, columnNames(cols))

			// Emitted after binding so callbacks can look the CTE up in
			// the scope snapshot and see its resolved columns.
			r.emit(cte, ast.KindCTE, ClauseNone, ctePath, scope, depth)
		}
		r.pending = r.pending[:len(r.pending)-1]
	}

	return r.walkBody(sel.Body, scope, path+".body", depth)
}

func (r *walkRun) walkBody(body *ast.SelectBody, scope *Scope, path string, depth int) []OutputColumn {
	if body == nil {
		return nil
	}
	if body.Op != ast.SetOpNone {
		r.emit(body, ast.KindUnion, ClauseNone, path, scope, depth)
	}
	cols := r.walkCore(body.Left, scope, path+".left", depth)
	r.walkBody(body.Right, scope, path+".right", depth)
	return cols
}

func (r *walkRun) walkCore(sc *ast.SelectCore, scope *Scope, path string, depth int) []OutputColumn {
	if sc == nil {
		return nil
	}
	cs := scope.Child()

	// Bind FROM items before emitting any events so scope snapshots are
	// complete for this level.
	if sc.From != nil {
		r.bindTableRef(sc.From.Source, scope, cs, path+".from.source", depth)
		for i, join := range sc.From.Joins {
			r.bindTableRef(join.Right, scope, cs, fmt.Sprintf("%s.from.joins[%d]", path, i), depth)
		}
	}

	r.emit(sc, ast.KindSelect, ClauseNone, path, cs, depth)

	if sc.From != nil {
		r.emit(sc.From.Source, ast.KindTableRef, ClauseNone, path+".from.source", cs, depth)
		for i, join := range sc.From.Joins {
			joinPath := fmt.Sprintf("%s.from.joins[%d]", path, i)
			r.emit(join.Right, ast.KindTableRef, ClauseNone, joinPath, cs, depth)
			r.emit(join, ast.KindJoin, ClauseNone, joinPath, cs, depth)
			r.walkExpr(join.On, cs, joinPath+".on", depth, ClauseJoinOn)
		}
	}

	for i, item := range sc.Columns {
		r.walkExpr(item.Expr, cs, fmt.Sprintf("%s.columns[%d]", path, i), depth, ClauseSelectList)
	}

	if sc.Where != nil {
		r.emit(sc.Where, ast.KindWhere, ClauseWhere, path+".where", cs, depth)
		r.walkExpr(sc.Where, cs, path+".where", depth, ClauseWhere)
	}
	for i, g := range sc.GroupBy {
		r.walkExpr(g, cs, fmt.Sprintf("%s.group_by[%d]", path, i), depth, ClauseGroupBy)
	}
	if sc.Having != nil {
		r.walkExpr(sc.Having, cs, path+".having", depth, ClauseHaving)
	}
	if len(sc.OrderBy) > 0 {
		r.emit(sc, ast.KindOrderBy, ClauseOrderBy, path+".order_by", cs, depth)
		for i, o := range sc.OrderBy {
			r.walkExpr(o.Expr, cs, fmt.Sprintf("%s.order_by[%d]", path, i), depth, ClauseOrderBy)
		}
	}
	if sc.Limit != nil {
		r.emit(sc, ast.KindLimit, ClauseLimit, path+".limit", cs, depth)
		r.walkExpr(sc.Limit, cs, path+".limit", depth, ClauseLimit)
	}

	return OutputColumns(sc, cs)
}

func (r *walkRun) bindTableRef(ref ast.TableRef, outer, cs *Scope, path string, depth int) {
	switch t := ref.(type) {
	case *ast.TableName:
		if entry, ok := outer.LookupCTE(t.Name); ok {
			cs.bind(effectiveName(t), &Entry{
				Type:    EntryCTE,
				Name:    t.Name,
				Alias:   t.Alias,
				Columns: entry.Columns,
			})
			return
		}
		if r.isPendingCTE(t.Name) {
			r.structural(core.CheckUnresolvedReference, core.SeverityWarning,
				fmt.Sprintf("reference to CTE %q before its definition", t.Name), path)
		}
		cs.BindTable(t.Name, t.Alias)

	case *ast.DerivedTable:
		// Derived tables cannot see sibling FROM items, so their scope
		// chains to the enclosing scope, not to cs.
		cols := r.walkSelect(t.Select, outer.Child(), path+".select", depth+1)
		cs.BindDerived(t.Alias, columnNames(cols))
	}
}

// walkExpr traverses an expression, emitting function, literal, and column
// events, and descending into scalar subqueries with a fresh child scope.
func (r *walkRun) walkExpr(expr ast.Expr, scope *Scope, path string, depth int, clause Clause) {
	if expr == nil {
		return
	}
	ast.Walk(expr, func(node any) bool {
		switch n := node.(type) {
		case *ast.FuncCall:
			kind := ast.KindFuncCall
			if n.Window != nil {
				kind = ast.KindWindowFunc
			}
			r.emit(n, kind, clause, path, scope, depth)
			return true

		case *ast.Literal:
			r.emit(n, ast.KindLiteral, clause, path, scope, depth)
			return true

		case *ast.ColumnRef:
			r.emit(n, ast.KindColumnRef, clause, path, scope, depth)
			return true

		case *ast.SubqueryExpr:
			r.walkSelect(n.Select, scope.Child(), path+".subquery", depth+1)
			return false

		case *ast.ExistsExpr:
			r.walkSelect(n.Select, scope.Child(), path+".subquery", depth+1)
			return false

		case *ast.InExpr:
			if n.Query != nil {
				r.walkExpr(n.Expr, scope, path, depth, clause)
				r.walkSelect(n.Query, scope.Child(), path+".subquery", depth+1)
				return false
			}
			return true

		case *ast.UnknownNode:
			r.structural(core.CheckUnknownNode, core.SeverityInfo,
				fmt.Sprintf("unrecognized node kind %q: skipped for extraction, children still analyzed", n.Kind), path)
			return true
		}
		return true
	})
}

func effectiveName(t *ast.TableName) string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

func columnNames(cols []OutputColumn) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
