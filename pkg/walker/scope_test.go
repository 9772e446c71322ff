package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metastack-labs/metasql/pkg/core"
)

func orderHints() *core.SchemaHints {
	h := core.NewSchemaHints()
	h.AddTable("orders", []string{"order_id", "customer_id", "amount"}, []string{"order_id"})
	h.AddTable("customers", []string{"customer_id", "name"}, []string{"customer_id"})
	return h
}

func TestScope_BindAndLookup(t *testing.T) {
	s := NewScope(orderHints())
	s.BindTable("orders", "o")

	e, ok := s.Lookup("o")
	require.True(t, ok)
	assert.Equal(t, "orders", e.Name)
	assert.Equal(t, "o", e.EffectiveName())
	assert.Equal(t, []string{"order_id", "customer_id", "amount"}, e.Columns)

	_, ok = s.Lookup("orders")
	assert.False(t, ok, "aliased table is only addressable through the alias")

	e2, ok := s.Lookup("O")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Same(t, e, e2)
}

func TestScope_ChildChaining(t *testing.T) {
	outer := NewScope(orderHints())
	outer.BindTable("orders", "")

	inner := outer.Child()
	inner.BindTable("customers", "c")

	// Inner sees both; outer sees only its own binding.
	_, ok := inner.Lookup("orders")
	assert.True(t, ok, "child scope must see parent bindings")
	_, ok = outer.Lookup("c")
	assert.False(t, ok, "inner bindings must not leak outward")
}

func TestScope_ResolveColumn(t *testing.T) {
	s := NewScope(orderHints())
	s.BindTable("orders", "o")
	s.BindTable("customers", "c")

	e, ok := s.ResolveColumn("c", "name")
	require.True(t, ok)
	assert.Equal(t, "customers", e.Name)

	// Unqualified resolution by known column.
	e, ok = s.ResolveColumn("", "amount")
	require.True(t, ok)
	assert.Equal(t, "orders", e.Name)

	_, ok = s.ResolveColumn("", "missing_col")
	assert.False(t, ok)
}

func TestScope_ResolveColumn_SingleTableInference(t *testing.T) {
	s := NewScope(nil)
	s.BindTable("events", "")

	// No hints, but only one table is in scope: attribute the column to it.
	e, ok := s.ResolveColumn("", "ts")
	require.True(t, ok)
	assert.Equal(t, "events", e.Name)
}

func TestScope_ExpandStar(t *testing.T) {
	s := NewScope(orderHints())
	s.BindTable("orders", "o")
	s.BindTable("customers", "c")

	all := s.ExpandStar("")
	require.Len(t, all, 5)
	assert.Equal(t, "order_id", all[0].Column)
	assert.Equal(t, "name", all[4].Column)

	one := s.ExpandStar("c")
	require.Len(t, one, 2)
	assert.Equal(t, "customer_id", one[0].Column)

	assert.Nil(t, s.ExpandStar("missing"))
}

func TestScope_ExpandStar_NoHints(t *testing.T) {
	s := NewScope(nil)
	s.BindTable("orders", "")
	assert.Nil(t, s.ExpandStar(""), "unknown column sets cannot expand")
}

func TestScope_LookupCTE(t *testing.T) {
	s := NewScope(nil)
	s.BindCTE("recent", []string{"id", "ts"})
	s.BindTable("recent_archive", "")

	e, ok := s.LookupCTE("recent")
	require.True(t, ok)
	assert.Equal(t, EntryCTE, e.Type)
	assert.Equal(t, []string{"id", "ts"}, e.Columns)

	_, ok = s.LookupCTE("recent_archive")
	assert.False(t, ok, "base tables are not CTEs")
}
