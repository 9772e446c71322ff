package core

import "strings"

// SchemaHints carries externally supplied schema knowledge: known columns
// per table and locally declared primary keys. Analysis is schema-light -
// hints are optional and everything degrades to name heuristics without them.
// Table and column lookups are case-insensitive.
type SchemaHints struct {
	// Columns maps table name -> ordered column names.
	Columns map[string][]string
	// PrimaryKeys maps table name -> primary key column names.
	PrimaryKeys map[string][]string
}

// NewSchemaHints returns empty hints.
func NewSchemaHints() *SchemaHints {
	return &SchemaHints{
		Columns:     make(map[string][]string),
		PrimaryKeys: make(map[string][]string),
	}
}

// AddTable declares one table's shape.
func (h *SchemaHints) AddTable(name string, columns, primaryKey []string) {
	key := strings.ToLower(name)
	h.Columns[key] = columns
	if len(primaryKey) > 0 {
		h.PrimaryKeys[key] = primaryKey
	}
}

// TableColumns returns the known columns for a table, or nil.
func (h *SchemaHints) TableColumns(table string) []string {
	if h == nil {
		return nil
	}
	if cols, ok := h.Columns[table]; ok {
		return cols
	}
	return h.Columns[strings.ToLower(table)]
}

// PrimaryKey returns the declared primary key columns for a table, or nil
// when the key is unknown.
func (h *SchemaHints) PrimaryKey(table string) []string {
	if h == nil {
		return nil
	}
	if pk, ok := h.PrimaryKeys[table]; ok {
		return pk
	}
	return h.PrimaryKeys[strings.ToLower(table)]
}

// IsPrimaryKey reports whether col is part of table's declared primary key.
func (h *SchemaHints) IsPrimaryKey(table, col string) bool {
	for _, pk := range h.PrimaryKey(table) {
		if strings.EqualFold(pk, col) {
			return true
		}
	}
	return false
}
