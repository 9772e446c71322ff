package determinism

import (
	"fmt"
	"strings"

	"github.com/metastack-labs/metasql/pkg/ast"
)

// MonitorColumns is the generated pair of data-quality columns that expose
// whether window ordering ties would affect results on the actual data.
type MonitorColumns struct {
	// TieCount counts rows sharing the partition and pre-tie-breaker order
	// key. A value above one means the window ordering alone does not pin
	// the row.
	TieCount string

	// Status distinguishes NO_TIE rows from tied ones. Resolved reports
	// TIE_RESOLVED when a tie breaker was applied, POTENTIAL_TIE when not.
	Status string
}

// Monitor column names and status values.
const (
	TieCountColumn = "_dq_tie_count"
	StatusColumn   = "_dq_determinism_status"

	StatusNoTie        = "NO_TIE"
	StatusTieResolved  = "TIE_RESOLVED"
	StatusPotentialTie = "POTENTIAL_TIE"
)

// TieMonitorColumns builds the monitoring expressions for a window
// specification. Order columns are taken as written, before any suggested
// tie breaker; resolved states whether a tie breaker was applied to the
// query so the status column can label ties accordingly.
func TieMonitorColumns(spec *ast.WindowSpec, resolved bool) MonitorColumns {
	var keys []string
	if spec != nil {
		for _, p := range spec.PartitionBy {
			keys = append(keys, ast.ExprString(p))
		}
		for _, o := range spec.OrderBy {
			keys = append(keys, ast.ExprString(o.Expr))
		}
	}
	keyList := strings.Join(keys, ", ")
	if keyList == "" {
		keyList = "1"
	}

	tieStatus := StatusPotentialTie
	if resolved {
		tieStatus = StatusTieResolved
	}
	over := fmt.Sprintf("COUNT(*) OVER (PARTITION BY %s)", keyList)
	return MonitorColumns{
		TieCount: fmt.Sprintf("%s AS %s", over, TieCountColumn),
		Status: fmt.Sprintf("CASE WHEN %s > 1 THEN '%s' ELSE '%s' END AS %s",
			over, tieStatus, StatusNoTie, StatusColumn),
	}
}
