package determinism

import (
	"fmt"
	"strings"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(LagLeadNoOrder)
}

var lagLeadFuncs = map[string]bool{"lag": true, "lead": true}

// LagLeadNoOrder flags LAG/LEAD windows with no ORDER BY.
var LagLeadNoOrder = lint.CheckDef{
	Type:        core.CheckLagLeadNoOrder,
	Name:        "determinism.lag_lead_no_order",
	Group:       lint.GroupDeterminism,
	Description: "LAG/LEAD without ORDER BY reads a neighbor in undefined order.",
	Severity:    core.SeverityError,
	Kinds:       []ast.NodeKind{ast.KindWindowFunc},
	Check:       checkLagLeadNoOrder,

	Rationale: `LAG and LEAD read the previous or next row relative to the window
order. With no order there is no previous or next, and the value returned
depends on the engine's scan order.`,

	BadExample: `SELECT LAG(amount) OVER (PARTITION BY customer_id) FROM orders`,

	GoodExample: `SELECT LAG(amount) OVER (PARTITION BY customer_id ORDER BY order_date) FROM orders`,

	Fix: "Add an ORDER BY to the window specification.",
}

func checkLagLeadNoOrder(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	f, ok := ev.Node.(*ast.FuncCall)
	if !ok || f.Window == nil || !lagLeadFuncs[strings.ToLower(f.Name)] {
		return nil
	}
	if len(f.Window.OrderBy) > 0 {
		return nil
	}
	return []core.Diagnostic{{
		Message:    fmt.Sprintf("%s window has no ORDER BY, neighbor selection is arbitrary", strings.ToUpper(f.Name)),
		Suggestion: "add an ORDER BY to the window specification",
		Location:   core.Location{Path: ev.Path},
	}}
}
