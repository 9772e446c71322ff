package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metastack-labs/metasql/internal/testutil"
	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
)

func orderHints() *core.SchemaHints {
	h := core.NewSchemaHints()
	h.AddTable("orders", []string{"order_id", "customer_id", "amount"}, []string{"order_id"})
	return h
}

func TestAllCheckTypes(t *testing.T) {
	types := New().AllCheckTypes()

	// 15 defect checks, 6 determinism checks, 3 structural kinds.
	assert.Len(t, types, 24)
	assert.Contains(t, types, core.CheckSelectStar)
	assert.Contains(t, types, core.CheckWindowNoOrder)
	assert.Contains(t, types, core.CheckInternalError)
}

func TestAnalyzeStatement_MergesPhases(t *testing.T) {
	// SELECT * over an unknown table: the star fires a check finding and
	// lineage reports the unexpandable star.
	stmt := testutil.MustDecode(t, `{
		"id": "s1",
		"select": {"body": {"left": {
			"columns": [{"star": true}],
			"from": {"source": {"kind": "table", "name": "mystery"}}
		}}}
	}`)

	a := New(WithLogger(testutil.NewTestLogger(t)))
	res := a.AnalyzeStatement(stmt, nil)
	require.NoError(t, res.Err)
	assert.Equal(t, "s1", res.StatementID)
	require.NotNil(t, res.Metadata)
	assert.Empty(t, res.Mappings)

	var checkTypes []core.CheckType
	for _, d := range res.Diagnostics {
		checkTypes = append(checkTypes, d.CheckType)
	}
	assert.Contains(t, checkTypes, core.CheckSelectStar, "check findings are merged")
	assert.Contains(t, checkTypes, core.CheckUnresolvedReference, "lineage findings are merged")
}

func TestAnalyzeStatement_NilStatement(t *testing.T) {
	res := New().AnalyzeStatement(nil, nil)
	require.ErrorIs(t, res.Err, core.ErrNilStatement)
}

func TestAnalyzeStatement_Deterministic(t *testing.T) {
	fixture := `{
		"id": "stable",
		"select": {"body": {"left": {
			"columns": [
				{"expr": {"kind": "column_ref", "column": "order_id"}},
				{"expr": {"kind": "func_call", "name": "sum",
					"args": [{"kind": "column_ref", "column": "amount"}]}, "alias": "total"}
			],
			"from": {"source": {"kind": "table", "name": "orders"}},
			"group_by": [{"kind": "column_ref", "column": "order_id"}]
		}}}
	}`
	a := New()

	first := a.AnalyzeStatement(testutil.MustDecode(t, fixture), orderHints())
	second := a.AnalyzeStatement(testutil.MustDecode(t, fixture), orderHints())
	require.NoError(t, first.Err)

	fj, err := json.Marshal(first)
	require.NoError(t, err)
	sj, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(fj), string(sj), "serialized output must be byte-identical across runs")
}

func TestBatch_PreservesOrder(t *testing.T) {
	var stmts []*ast.Statement
	for i := 0; i < 20; i++ {
		stmts = append(stmts, testutil.MustDecode(t, fmt.Sprintf(`{
			"id": "stmt_%02d",
			"select": {"body": {"left": {
				"columns": [{"expr": {"kind": "column_ref", "column": "order_id"}}],
				"from": {"source": {"kind": "table", "name": "orders"}}
			}}}
		}`, i)))
	}

	a := New()
	results, err := a.Batch(context.Background(), stmts, orderHints(), 4)
	require.NoError(t, err)
	require.Len(t, results, 20)
	for i, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, fmt.Sprintf("stmt_%02d", i), res.StatementID)
	}
}

func TestBatch_PerStatementErrors(t *testing.T) {
	stmts := []*ast.Statement{
		testutil.MustDecode(t, `{
			"id": "good",
			"select": {"body": {"left": {
				"columns": [{"expr": {"kind": "column_ref", "column": "order_id"}}],
				"from": {"source": {"kind": "table", "name": "orders"}}
			}}}
		}`),
		{ID: "empty"},
	}

	a := New()
	results, err := a.Batch(context.Background(), stmts, orderHints(), 0)
	require.NoError(t, err, "a bad statement must not fail the batch")
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, core.ErrNilStatement)
}

func TestBatch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New()
	_, err := a.Batch(ctx, []*ast.Statement{testutil.MustDecode(t, `{
		"id": "s",
		"select": {"body": {"left": {
			"columns": [{"expr": {"kind": "column_ref", "column": "order_id"}}],
			"from": {"source": {"kind": "table", "name": "orders"}}
		}}}
	}`)}, nil, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWithConfig_DisablesChecks(t *testing.T) {
	cfg := lint.DefaultConfig()
	cfg.Disabled[core.CheckSelectStar] = true

	stmt := testutil.MustDecode(t, `{
		"id": "s",
		"select": {"body": {"left": {
			"columns": [{"star": true}],
			"from": {"source": {"kind": "table", "name": "orders"}}
		}}}
	}`)

	diags, err := New(WithConfig(cfg)).Analyze(stmt, orderHints())
	require.NoError(t, err)
	for _, d := range diags {
		assert.NotEqual(t, core.CheckSelectStar, d.CheckType)
	}
}
