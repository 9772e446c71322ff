package walker

import (
	"strings"

	"github.com/metastack-labs/metasql/pkg/core"
)

// EntryType indicates what kind of construct a scope entry binds.
type EntryType int

// EntryType constants.
const (
	// EntryTable represents a base table.
	EntryTable EntryType = iota
	// EntryCTE represents a common table expression.
	EntryCTE
	// EntryDerived represents a derived table (subquery in FROM).
	EntryDerived
)

// Entry represents a table, CTE, or derived table bound in scope.
type Entry struct {
	Type    EntryType
	Name    string   // original table/CTE name
	Alias   string   // alias, if any
	Columns []string // known output columns, in order
}

// EffectiveName returns the name used to reference this entry.
func (e *Entry) EffectiveName() string {
	if e.Alias != "" {
		return e.Alias
	}
	return e.Name
}

// Scope tracks the tables, CTEs, and derived tables visible at one point of
// the traversal. Scopes form an explicit stack: child scopes hold a
// read-only back-reference to their parent for correlated lookups, and
// inner bindings never leak outward.
type Scope struct {
	parent  *Scope
	names   []string          // binding order, normalized
	entries map[string]*Entry // normalized name/alias -> entry
	hints   *core.SchemaHints
}

// NewScope creates a root scope over the given schema hints (may be nil).
func NewScope(hints *core.SchemaHints) *Scope {
	return &Scope{
		entries: make(map[string]*Entry),
		hints:   hints,
	}
}

// Child creates a nested scope for a subquery or derived table.
func (s *Scope) Child() *Scope {
	return &Scope{
		parent:  s,
		entries: make(map[string]*Entry),
		hints:   s.hints,
	}
}

// Hints returns the schema hints shared by the scope chain.
func (s *Scope) Hints() *core.SchemaHints { return s.hints }

func normalize(name string) string { return strings.ToLower(name) }

func (s *Scope) bind(key string, e *Entry) {
	k := normalize(key)
	if _, exists := s.entries[k]; !exists {
		s.names = append(s.names, k)
	}
	s.entries[k] = e
}

// BindTable binds a base table by its effective name. Known columns come
// from schema hints when available.
func (s *Scope) BindTable(name, alias string) *Entry {
	e := &Entry{Type: EntryTable, Name: name, Alias: alias}
	if s.hints != nil {
		e.Columns = s.hints.TableColumns(name)
	}
	s.bind(e.EffectiveName(), e)
	return e
}

// BindCTE binds a CTE with its resolved output columns.
func (s *Scope) BindCTE(name string, columns []string) *Entry {
	e := &Entry{Type: EntryCTE, Name: name, Columns: columns}
	s.bind(name, e)
	return e
}

// BindDerived binds a derived table under its alias.
func (s *Scope) BindDerived(alias string, columns []string) *Entry {
	e := &Entry{Type: EntryDerived, Name: alias, Alias: alias, Columns: columns}
	s.bind(alias, e)
	return e
}

// Lookup finds an entry by table name or alias, searching the current scope
// first and then parent scopes (correlated references).
func (s *Scope) Lookup(name string) (*Entry, bool) {
	if e, ok := s.entries[normalize(name)]; ok {
		return e, true
	}
	if s.parent != nil {
		return s.parent.Lookup(name)
	}
	return nil, false
}

// LookupCTE finds a CTE binding by name anywhere in the scope chain.
func (s *Scope) LookupCTE(name string) (*Entry, bool) {
	if e, ok := s.entries[normalize(name)]; ok && e.Type == EntryCTE {
		return e, true
	}
	if s.parent != nil {
		return s.parent.LookupCTE(name)
	}
	return nil, false
}

// Entries returns the entries bound in this scope (excluding parents), in
// binding order. Binding order is deterministic: it follows the FROM clause.
func (s *Scope) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.names))
	for _, k := range s.names {
		out = append(out, s.entries[k])
	}
	return out
}

// ResolveColumn resolves a column reference to the entry providing it.
//
// Qualified references resolve by table name or alias. Unqualified ones
// match against known columns; when exactly one table with unknown columns
// is in scope, the column is attributed to it.
func (s *Scope) ResolveColumn(table, column string) (*Entry, bool) {
	if table != "" {
		return s.Lookup(table)
	}

	col := normalize(column)
	for _, k := range s.names {
		e := s.entries[k]
		for _, c := range e.Columns {
			if normalize(c) == col {
				return e, true
			}
		}
	}

	// Single-table inference for tables without column hints.
	var single *Entry
	count := 0
	for _, k := range s.names {
		if e := s.entries[k]; len(e.Columns) == 0 || e.Type == EntryTable {
			count++
			single = e
		}
	}
	if count == 1 && single != nil {
		return single, true
	}

	if s.parent != nil {
		return s.parent.ResolveColumn(table, column)
	}
	return nil, false
}

// ExpandStar expands a * (or t.*) into the known columns of the matching
// entries, in binding order. Returns nil when no columns are known.
func (s *Scope) ExpandStar(table string) []StarColumn {
	if table != "" {
		e, ok := s.Lookup(table)
		if !ok || len(e.Columns) == 0 {
			return nil
		}
		out := make([]StarColumn, 0, len(e.Columns))
		for _, c := range e.Columns {
			out = append(out, StarColumn{Entry: e, Column: c})
		}
		return out
	}

	var out []StarColumn
	for _, k := range s.names {
		e := s.entries[k]
		for _, c := range e.Columns {
			out = append(out, StarColumn{Entry: e, Column: c})
		}
	}
	return out
}

// StarColumn is one column produced by star expansion.
type StarColumn struct {
	Entry  *Entry
	Column string
}
