package lineage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metastack-labs/metasql/internal/testutil"
	"github.com/metastack-labs/metasql/pkg/core"
)

func orderHints() *core.SchemaHints {
	h := core.NewSchemaHints()
	h.AddTable("orders", []string{"order_id", "customer_id", "amount"}, []string{"order_id"})
	h.AddTable("customers", []string{"customer_id", "name"}, []string{"customer_id"})
	return h
}

func byTarget(mappings []core.AttributeMapping, targetAttrID string) []core.AttributeMapping {
	var out []core.AttributeMapping
	for _, m := range mappings {
		if m.TargetAttributeID == targetAttrID {
			out = append(out, m)
		}
	}
	return out
}

func TestTrace_MappingTypes(t *testing.T) {
	stmt := testutil.MustDecode(t, `{
		"id": "shapes",
		"select": {"body": {"left": {
			"columns": [
				{"expr": {"kind": "column_ref", "column": "order_id"}},
				{"expr": {"kind": "column_ref", "column": "amount"}, "alias": "order_total"},
				{"expr": {"kind": "binary", "op": "*",
					"left": {"kind": "column_ref", "column": "amount"},
					"right": {"kind": "literal", "type": "number", "value": "1.2"}}, "alias": "gross"},
				{"expr": {"kind": "func_call", "name": "sum",
					"args": [{"kind": "column_ref", "column": "amount"}]}, "alias": "total"},
				{"expr": {"kind": "literal", "type": "string", "value": "EUR"}, "alias": "currency"}
			],
			"from": {"source": {"kind": "table", "name": "orders"}}
		}}}
	}`)

	tr := NewTracer(WithLogger(testutil.NewTestLogger(t)))
	mappings, diags, err := tr.Trace(stmt, orderHints())
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Len(t, mappings, 5)

	direct := byTarget(mappings, "attr_shapes_order_id")
	require.Len(t, direct, 1)
	assert.Equal(t, core.MappingDirect, direct[0].MappingType)
	assert.Equal(t, "ent_orders", direct[0].SourceEntityID)
	assert.Equal(t, "attr_orders_order_id", direct[0].SourceAttributeID)
	assert.Empty(t, direct[0].Transformation)

	rename := byTarget(mappings, "attr_shapes_order_total")
	require.Len(t, rename, 1)
	assert.Equal(t, core.MappingRename, rename[0].MappingType)
	assert.Equal(t, "attr_orders_amount", rename[0].SourceAttributeID)

	derived := byTarget(mappings, "attr_shapes_gross")
	require.Len(t, derived, 1)
	assert.Equal(t, core.MappingDerived, derived[0].MappingType)
	assert.Equal(t, "amount * 1.2", derived[0].Transformation)

	agg := byTarget(mappings, "attr_shapes_total")
	require.Len(t, agg, 1)
	assert.Equal(t, core.MappingAggregation, agg[0].MappingType)
	assert.Equal(t, "SUM(amount)", agg[0].Transformation)

	constant := byTarget(mappings, "attr_shapes_currency")
	require.Len(t, constant, 1)
	assert.Equal(t, core.MappingConstant, constant[0].MappingType)
	assert.Empty(t, constant[0].SourceEntityID)
	assert.Empty(t, constant[0].SourceAttributeID)
	assert.Equal(t, "'EUR'", constant[0].Transformation)
}

func TestTrace_CTEChainBottomsAtBaseTable(t *testing.T) {
	stmt := testutil.MustDecode(t, `{
		"id": "chain",
		"select": {
			"with": {"ctes": [
				{"name": "a", "select": {"body": {"left": {
					"columns": [{"expr": {"kind": "column_ref", "column": "amount"}, "alias": "amt"}],
					"from": {"source": {"kind": "table", "name": "orders"}}}}}},
				{"name": "b", "select": {"body": {"left": {
					"columns": [{"expr": {"kind": "column_ref", "column": "amt"}}],
					"from": {"source": {"kind": "table", "name": "a"}}}}}},
				{"name": "c", "select": {"body": {"left": {
					"columns": [{"expr": {"kind": "column_ref", "column": "amt"}, "alias": "final_amt"}],
					"from": {"source": {"kind": "table", "name": "b"}}}}}}
			]},
			"body": {"left": {
				"columns": [{"expr": {"kind": "column_ref", "column": "final_amt"}}],
				"from": {"source": {"kind": "table", "name": "c"}}
			}}
		}
	}`)

	tr := NewTracer()
	mappings, diags, err := tr.Trace(stmt, orderHints())
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Len(t, mappings, 1)

	m := mappings[0]
	assert.Equal(t, "ent_chain", m.TargetEntityID)
	assert.Equal(t, "attr_chain_final_amt", m.TargetAttributeID)
	assert.Equal(t, "ent_orders", m.SourceEntityID, "lineage must bottom out at the base table")
	assert.Equal(t, "attr_orders_amount", m.SourceAttributeID)
	assert.Equal(t, core.MappingRename, m.MappingType, "rename upstream survives passthrough")
}

func TestTrace_DerivedTable(t *testing.T) {
	stmt := testutil.MustDecode(t, `{
		"id": "derived",
		"select": {"body": {"left": {
			"columns": [{"expr": {"kind": "column_ref", "column": "doubled"}}],
			"from": {"source": {"kind": "derived", "alias": "d",
				"select": {"body": {"left": {
					"columns": [{"expr": {"kind": "binary", "op": "*",
						"left": {"kind": "column_ref", "column": "amount"},
						"right": {"kind": "literal", "type": "number", "value": "2"}}, "alias": "doubled"}],
					"from": {"source": {"kind": "table", "name": "orders"}}}}}}}
		}}}
	}`)

	tr := NewTracer()
	mappings, diags, err := tr.Trace(stmt, orderHints())
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Len(t, mappings, 1)

	m := mappings[0]
	assert.Equal(t, "attr_orders_amount", m.SourceAttributeID)
	assert.Equal(t, core.MappingDerived, m.MappingType, "upstream derivation survives substitution")
}

func TestTrace_MultiSourceExpression(t *testing.T) {
	stmt := testutil.MustDecode(t, `{
		"id": "multi",
		"select": {"body": {"left": {
			"columns": [{"expr": {"kind": "binary", "op": "-",
				"left": {"kind": "column_ref", "column": "amount"},
				"right": {"kind": "column_ref", "column": "customer_id"}}, "alias": "diff"}],
			"from": {"source": {"kind": "table", "name": "orders"}}
		}}}
	}`)

	tr := NewTracer()
	mappings, _, err := tr.Trace(stmt, orderHints())
	require.NoError(t, err)
	require.Len(t, mappings, 2, "one mapping row per source attribute")

	sources := []string{mappings[0].SourceAttributeID, mappings[1].SourceAttributeID}
	assert.Contains(t, sources, "attr_orders_amount")
	assert.Contains(t, sources, "attr_orders_customer_id")
	for _, m := range mappings {
		assert.Equal(t, core.MappingDerived, m.MappingType)
		assert.Equal(t, "attr_multi_diff", m.TargetAttributeID)
	}
}

func TestTrace_UnionAlternatives(t *testing.T) {
	hints := orderHints()
	hints.AddTable("archive_orders", []string{"order_id", "amount"}, []string{"order_id"})

	stmt := testutil.MustDecode(t, `{
		"id": "unioned",
		"select": {"body": {
			"left": {
				"columns": [{"expr": {"kind": "column_ref", "column": "order_id"}}],
				"from": {"source": {"kind": "table", "name": "orders"}}
			},
			"op": "union", "all": true,
			"right": {"left": {
				"columns": [{"expr": {"kind": "column_ref", "column": "order_id"}, "alias": "id"}],
				"from": {"source": {"kind": "table", "name": "archive_orders"}}
			}}
		}}
	}`)

	tr := NewTracer()
	mappings, _, err := tr.Trace(stmt, hints)
	require.NoError(t, err)
	require.Len(t, mappings, 2, "each branch contributes an alternative mapping")

	// Both alternatives target the name declared by the first branch.
	for _, m := range mappings {
		assert.Equal(t, "attr_unioned_order_id", m.TargetAttributeID)
	}
	sources := []string{mappings[0].SourceEntityID, mappings[1].SourceEntityID}
	assert.Contains(t, sources, "ent_orders")
	assert.Contains(t, sources, "ent_archive_orders")
}

func TestTrace_UnresolvableColumnSkipped(t *testing.T) {
	stmt := testutil.MustDecode(t, `{
		"id": "partial",
		"select": {"body": {"left": {
			"columns": [
				{"expr": {"kind": "column_ref", "column": "order_id"}},
				{"expr": {"kind": "column_ref", "table": "ghost", "column": "x"}}
			],
			"from": {"source": {"kind": "table", "name": "orders"}}
		}}}
	}`)

	tr := NewTracer()
	mappings, diags, err := tr.Trace(stmt, orderHints())
	require.NoError(t, err)

	require.Len(t, mappings, 1, "resolvable columns are still traced")
	assert.Equal(t, "attr_orders_order_id", mappings[0].SourceAttributeID)

	require.Len(t, diags, 1)
	assert.Equal(t, core.CheckUnresolvedReference, diags[0].CheckType)
	assert.Contains(t, diags[0].Message, "ghost.x")
}

func TestTrace_UnexpandableStarDiagnostic(t *testing.T) {
	stmt := testutil.MustDecode(t, `{
		"id": "starry",
		"select": {"body": {"left": {
			"columns": [{"star": true}],
			"from": {"source": {"kind": "table", "name": "mystery"}}
		}}}
	}`)

	tr := NewTracer()
	mappings, diags, err := tr.Trace(stmt, nil)
	require.NoError(t, err)
	assert.Empty(t, mappings)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "schema hints")
}

func TestTrace_NilStatement(t *testing.T) {
	tr := NewTracer()
	_, _, err := tr.Trace(nil, nil)
	require.ErrorIs(t, err, core.ErrNilStatement)
}

func TestTrace_Idempotent(t *testing.T) {
	fixture := `{
		"id": "stable",
		"select": {
			"with": {"ctes": [
				{"name": "src", "select": {"body": {"left": {
					"columns": [
						{"expr": {"kind": "column_ref", "column": "customer_id"}},
						{"expr": {"kind": "func_call", "name": "sum",
							"args": [{"kind": "column_ref", "column": "amount"}]}, "alias": "total"}
					],
					"from": {"source": {"kind": "table", "name": "orders"}},
					"group_by": [{"kind": "column_ref", "column": "customer_id"}]}}}}
			]},
			"body": {"left": {
				"columns": [
					{"expr": {"kind": "column_ref", "column": "customer_id"}},
					{"expr": {"kind": "column_ref", "column": "total"}}
				],
				"from": {"source": {"kind": "table", "name": "src"}}
			}}
		}
	}`
	tr := NewTracer()

	first, _, err := tr.Trace(testutil.MustDecode(t, fixture), orderHints())
	require.NoError(t, err)
	second, _, err := tr.Trace(testutil.MustDecode(t, fixture), orderHints())
	require.NoError(t, err)

	assert.Equal(t, first, second, "mapping output must be identical across runs")

	// The aggregation inside the CTE carries through to the final column.
	total := byTarget(first, "attr_stable_total")
	require.Len(t, total, 1)
	assert.Equal(t, core.MappingAggregation, total[0].MappingType)
}
