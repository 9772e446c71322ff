package determinism

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metastack-labs/metasql/pkg/ast"
)

func TestTieMonitorColumns(t *testing.T) {
	spec := &ast.WindowSpec{
		PartitionBy: []ast.Expr{&ast.ColumnRef{Column: "customer_id"}},
		OrderBy:     []ast.OrderByItem{{Expr: &ast.ColumnRef{Column: "created_at"}}},
	}

	cols := TieMonitorColumns(spec, false)
	assert.Equal(t,
		"COUNT(*) OVER (PARTITION BY customer_id, created_at) AS _dq_tie_count",
		cols.TieCount)
	assert.Equal(t,
		"CASE WHEN COUNT(*) OVER (PARTITION BY customer_id, created_at) > 1 "+
			"THEN 'POTENTIAL_TIE' ELSE 'NO_TIE' END AS _dq_determinism_status",
		cols.Status)
}

func TestTieMonitorColumns_Resolved(t *testing.T) {
	spec := &ast.WindowSpec{
		OrderBy: []ast.OrderByItem{{Expr: &ast.ColumnRef{Column: "created_at"}}},
	}
	cols := TieMonitorColumns(spec, true)
	assert.Contains(t, cols.Status, StatusTieResolved)
	assert.Contains(t, cols.Status, StatusNoTie)
	assert.NotContains(t, cols.Status, StatusPotentialTie)
}

func TestTieMonitorColumns_EmptySpec(t *testing.T) {
	cols := TieMonitorColumns(nil, false)
	assert.Equal(t, "COUNT(*) OVER (PARTITION BY 1) AS _dq_tie_count", cols.TieCount,
		"an empty key degenerates to a single global partition")
}
