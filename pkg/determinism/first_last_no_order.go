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
	lint.Register(FirstLastNoOrder)
}

var firstLastFuncs = map[string]bool{
	"first_value": true, "last_value": true, "nth_value": true,
}

// FirstLastNoOrder flags FIRST_VALUE/LAST_VALUE windows with no ORDER BY.
var FirstLastNoOrder = lint.CheckDef{
	Type:        core.CheckFirstLastNoOrder,
	Name:        "determinism.first_last_no_order",
	Group:       lint.GroupDeterminism,
	Description: "FIRST_VALUE/LAST_VALUE without ORDER BY picks an arbitrary row.",
	Severity:    core.SeverityError,
	Kinds:       []ast.NodeKind{ast.KindWindowFunc},
	Check:       checkFirstLastNoOrder,

	Rationale: `First and last are only defined relative to an order. Without one the
engine returns whichever row it encounters first, which varies with scan
order, parallelism, and data layout.`,

	BadExample: `SELECT FIRST_VALUE(status) OVER (PARTITION BY order_id) FROM order_events`,

	GoodExample: `SELECT FIRST_VALUE(status) OVER (PARTITION BY order_id ORDER BY event_ts) FROM order_events`,

	Fix: "Add an ORDER BY to the window specification.",
}

func checkFirstLastNoOrder(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	f, ok := ev.Node.(*ast.FuncCall)
	if !ok || f.Window == nil || !firstLastFuncs[strings.ToLower(f.Name)] {
		return nil
	}
	if len(f.Window.OrderBy) > 0 {
		return nil
	}
	return []core.Diagnostic{{
		Message:    fmt.Sprintf("%s window has no ORDER BY, the selected row is arbitrary", strings.ToUpper(f.Name)),
		Suggestion: "add an ORDER BY to the window specification",
		Location:   core.Location{Path: ev.Path},
	}}
}
