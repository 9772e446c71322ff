// Package meta builds entity, attribute, and relationship records from a
// statement traversal. Layer and stereotype annotations are left to the
// caller; extraction guarantees identity and attribute shape only.
package meta

import (
	"log/slog"
	"strings"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/walker"
)

// Extractor turns one statement into metadata records. Safe for concurrent
// use; each Extract call carries its own state.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for extraction progress.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract walks the statement and returns one entity per table-producing
// construct (base table, CTE, final result set), attributes in output order,
// and relationships derived from equi-join predicates. Structural
// diagnostics raised during the walk are returned alongside.
func (e *Extractor) Extract(stmt *ast.Statement, hints *core.SchemaHints) (*core.Metadata, []core.Diagnostic, error) {
	if stmt == nil || stmt.Select == nil {
		return nil, nil, core.ErrNilStatement
	}

	b := &builder{
		statementID: stmt.ID,
		hints:       hints,
		seen:        make(map[string]bool),
		relSeen:     make(map[string]bool),
	}

	w := walker.New()
	w.On(b.onTableRef, ast.KindTableRef)
	w.On(b.onCTE, ast.KindCTE)
	w.On(b.onSelect, ast.KindSelect)
	w.On(b.onJoin, ast.KindJoin)
	diags := w.Walk(stmt, hints)

	md := &core.Metadata{
		Entities:      b.entities,
		Attributes:    b.attributes,
		Relationships: b.relationships,
	}
	e.logger.Debug("metadata extracted",
		"statement", stmt.ID,
		"entities", len(md.Entities),
		"attributes", len(md.Attributes),
		"relationships", len(md.Relationships))
	return md, diags, nil
}

// builder accumulates records in walk order so output is reproducible.
type builder struct {
	statementID string
	hints       *core.SchemaHints

	entities      []core.Entity
	attributes    []core.Attribute
	relationships []core.Relationship

	seen       map[string]bool // entity IDs already created
	relSeen    map[string]bool
	resultDone bool
}

func (b *builder) addEntity(ent core.Entity) bool {
	if b.seen[ent.EntityID] {
		return false
	}
	b.seen[ent.EntityID] = true
	b.entities = append(b.entities, ent)
	return true
}

func (b *builder) onTableRef(ev walker.Event) {
	t, ok := ev.Node.(*ast.TableName)
	if !ok {
		return
	}
	entry, ok := ev.Scope.Lookup(entryName(t))
	if !ok || entry.Type != walker.EntryTable {
		return
	}
	if !b.addEntity(core.Entity{
		EntityID: core.EntityID(t.Name),
		Name:     t.Name,
		Origin:   core.OriginTable,
	}) {
		return
	}
	for i, col := range b.hints.TableColumns(t.Name) {
		b.attributes = append(b.attributes, core.Attribute{
			AttributeID:     core.AttributeID(t.Name, col),
			EntityID:        core.EntityID(t.Name),
			Name:            col,
			OrdinalPosition: i + 1,
			IsPrimaryKey:    b.hints.IsPrimaryKey(t.Name, col),
		})
	}
}

func (b *builder) onCTE(ev walker.Event) {
	cte, ok := ev.Node.(*ast.CTE)
	if !ok {
		return
	}
	entry, ok := ev.Scope.LookupCTE(cte.Name)
	if !ok {
		return
	}
	entityID := core.CTEEntityID(b.statementID, cte.Name)
	if !b.addEntity(core.Entity{
		EntityID: entityID,
		Name:     cte.Name,
		Origin:   core.OriginCTE,
	}) {
		return
	}
	keys := groupByKeyColumns(ast.MainCore(cte.Select))
	owner := b.statementID + "_" + cte.Name
	for i, col := range entry.Columns {
		b.attributes = append(b.attributes, core.Attribute{
			AttributeID:     core.AttributeID(owner, col),
			EntityID:        entityID,
			Name:            col,
			OrdinalPosition: i + 1,
			IsPrimaryKey:    keys[strings.ToLower(col)],
		})
	}
}

func (b *builder) onSelect(ev walker.Event) {
	if ev.Depth != 0 || b.resultDone || !strings.HasPrefix(ev.Path, "select.body") {
		return
	}
	b.resultDone = true
	sc, ok := ev.Node.(*ast.SelectCore)
	if !ok {
		return
	}
	name := b.statementID
	if name == "" {
		name = "result"
	}
	entityID := core.EntityID(name)
	if !b.addEntity(core.Entity{
		EntityID: entityID,
		Name:     name,
		Origin:   core.OriginResult,
	}) {
		return
	}
	keys := groupByKeyColumns(sc)
	for i, col := range walker.OutputColumns(sc, ev.Scope) {
		b.attributes = append(b.attributes, core.Attribute{
			AttributeID:     core.AttributeID(name, col.Name),
			EntityID:        entityID,
			Name:            col.Name,
			OrdinalPosition: i + 1,
			IsPrimaryKey:    keys[strings.ToLower(col.Name)],
		})
	}
}

func (b *builder) onJoin(ev walker.Event) {
	join, ok := ev.Node.(*ast.Join)
	if !ok || join.On == nil {
		return
	}
	for _, pair := range equiPairs(join.On) {
		left, lok := ev.Scope.ResolveColumn(pair[0].Table, pair[0].Column)
		right, rok := ev.Scope.ResolveColumn(pair[1].Table, pair[1].Column)
		if !lok || !rok || left.Type == walker.EntryDerived || right.Type == walker.EntryDerived {
			continue
		}
		rel := core.Relationship{
			SourceEntityID: b.entityIDFor(left),
			TargetEntityID: b.entityIDFor(right),
			Cardinality:    b.cardinality(left, pair[0].Column, right, pair[1].Column),
		}
		rel.RelationshipID = core.RelationshipID(rel.SourceEntityID, pair[0].Column, rel.TargetEntityID, pair[1].Column)
		if b.relSeen[rel.RelationshipID] {
			continue
		}
		b.relSeen[rel.RelationshipID] = true
		b.relationships = append(b.relationships, rel)
	}
}

func (b *builder) entityIDFor(entry *walker.Entry) string {
	if entry.Type == walker.EntryCTE {
		return core.CTEEntityID(b.statementID, entry.Name)
	}
	return core.EntityID(entry.Name)
}

// cardinality classifies the join by which sides of the predicate are
// primary keys. Unknown keys degrade to many-to-many.
func (b *builder) cardinality(left *walker.Entry, leftCol string, right *walker.Entry, rightCol string) core.Cardinality {
	lpk := left.Type == walker.EntryTable && b.hints.IsPrimaryKey(left.Name, leftCol)
	rpk := right.Type == walker.EntryTable && b.hints.IsPrimaryKey(right.Name, rightCol)
	switch {
	case lpk && rpk:
		return core.CardinalityOneToOne
	case lpk:
		return core.CardinalityOneToMany
	case rpk:
		return core.CardinalityManyToOne
	default:
		return core.CardinalityManyToMany
	}
}

// equiPairs collects a.col = b.col predicates reachable through AND
// conjunctions. Predicates under OR are excluded: they do not assert a
// relationship on every row.
func equiPairs(expr ast.Expr) [][2]*ast.ColumnRef {
	switch n := expr.(type) {
	case *ast.BinaryExpr:
		switch strings.ToUpper(n.Op) {
		case "AND":
			return append(equiPairs(n.Left), equiPairs(n.Right)...)
		case "=":
			l, lok := n.Left.(*ast.ColumnRef)
			r, rok := n.Right.(*ast.ColumnRef)
			if lok && rok {
				return [][2]*ast.ColumnRef{{l, r}}
			}
		}
	case *ast.ParenExpr:
		return equiPairs(n.Expr)
	}
	return nil
}

// groupByKeyColumns applies the naming heuristic for inferred keys: a GROUP
// BY over a single `<name>_id` column marks that output column as key.
func groupByKeyColumns(sc *ast.SelectCore) map[string]bool {
	if sc == nil || len(sc.GroupBy) != 1 {
		return nil
	}
	c, ok := sc.GroupBy[0].(*ast.ColumnRef)
	if !ok || !strings.HasSuffix(strings.ToLower(c.Column), "_id") {
		return nil
	}
	return map[string]bool{strings.ToLower(c.Column): true}
}

func entryName(t *ast.TableName) string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}
