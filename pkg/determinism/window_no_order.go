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
	lint.Register(WindowNoOrder)
}

// rankingFuncs assign positions and are meaningless without an order.
var rankingFuncs = map[string]bool{
	"row_number": true, "rank": true, "dense_rank": true, "ntile": true,
}

// WindowNoOrder flags ranking windows with no ORDER BY sub-clause.
var WindowNoOrder = lint.CheckDef{
	Type:        core.CheckWindowNoOrder,
	Name:        "determinism.window_no_order",
	Group:       lint.GroupDeterminism,
	Description: "A ranking window without ORDER BY assigns positions arbitrarily.",
	Severity:    core.SeverityError,
	Kinds:       []ast.NodeKind{ast.KindWindowFunc},
	Check:       checkWindowNoOrder,

	Rationale: `ROW_NUMBER, RANK, DENSE_RANK, and NTILE number rows by the window
order. Without one, the numbering follows whatever order the engine happens
to scan, so two runs on identical data can disagree.`,

	BadExample: `SELECT ROW_NUMBER() OVER (PARTITION BY dept) AS rn FROM emp`,

	GoodExample: `SELECT ROW_NUMBER() OVER (PARTITION BY dept ORDER BY emp_id) AS rn FROM emp`,

	Fix: "Add an ORDER BY over a unique key to the window specification.",
}

func checkWindowNoOrder(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	f, ok := ev.Node.(*ast.FuncCall)
	if !ok || f.Window == nil || !rankingFuncs[strings.ToLower(f.Name)] {
		return nil
	}
	if len(f.Window.OrderBy) > 0 {
		return nil
	}
	return []core.Diagnostic{{
		Message:    fmt.Sprintf("%s window has no ORDER BY, row numbering is arbitrary", strings.ToUpper(f.Name)),
		Suggestion: "add ORDER BY over a unique key to the window",
		Location:   core.Location{Path: ev.Path},
	}}
}
