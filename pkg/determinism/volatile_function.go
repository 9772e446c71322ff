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
	lint.Register(VolatileFunction)
}

// volatileFuncs are built-ins whose value changes between calls.
var volatileFuncs = map[string]string{
	"random":           "returns a different value every call",
	"rand":             "returns a different value every call",
	"uuid":             "generates a new identifier every call",
	"gen_random_uuid":  "generates a new identifier every call",
	"newid":            "generates a new identifier every call",
	"uuid_generate_v4": "generates a new identifier every call",
	"now":              "captures the execution moment",
	"current_timestamp": "captures the execution moment",
	"systimestamp":     "captures the execution moment",
	"sysdate":          "captures the execution moment",
	"getdate":          "captures the execution moment",
	"current_date":     "captures the execution day",
	"current_time":     "captures the execution moment",
}

// VolatileFunction flags non-deterministic built-ins in output lists and
// orderings.
var VolatileFunction = lint.CheckDef{
	Type:        core.CheckVolatileFunction,
	Name:        "determinism.volatile_function",
	Group:       lint.GroupDeterminism,
	Description: "A volatile built-in in the output or ordering changes every run.",
	Severity:    core.SeverityWarning,
	Kinds:       []ast.NodeKind{ast.KindFuncCall, ast.KindWindowFunc},
	Check:       checkVolatileFunction,

	Rationale: `Values produced by random, identifier, and clock functions differ on
every execution, so the same statement on the same data yields different
results. In orderings they additionally shuffle rows between runs. Capture
such values once upstream and reference the stored column instead.`,

	BadExample: `SELECT order_id, NOW() AS loaded_at FROM orders ORDER BY RANDOM()`,

	GoodExample: `SELECT order_id, batch_loaded_at AS loaded_at FROM orders ORDER BY order_id`,

	Fix: "Materialize the value once upstream and select the stored column.",
}

func checkVolatileFunction(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	if ev.Clause != walker.ClauseSelectList && ev.Clause != walker.ClauseOrderBy {
		return nil
	}
	f, ok := ev.Node.(*ast.FuncCall)
	if !ok {
		return nil
	}
	reason, volatile := volatileFuncs[strings.ToLower(f.Name)]
	if !volatile {
		return nil
	}
	where := "output list"
	if ev.Clause == walker.ClauseOrderBy {
		where = "ORDER BY"
	}
	return []core.Diagnostic{{
		Message:    fmt.Sprintf("%s in %s %s", strings.ToUpper(f.Name), where, reason),
		Suggestion: "materialize the value once upstream and select the stored column",
		Location:   core.Location{Path: ev.Path},
	}}
}
