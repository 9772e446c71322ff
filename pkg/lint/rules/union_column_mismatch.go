package rules

import (
	"fmt"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(UnionColumnMismatch)
}

// UnionColumnMismatch flags set-operation branches with different arity.
var UnionColumnMismatch = lint.CheckDef{
	Type:        core.CheckUnionColumnMismatch,
	Name:        "defect.union_column_mismatch",
	Group:       lint.GroupDefect,
	Description: "Set-operation branches must produce the same number of columns.",
	Severity:    core.SeverityError,
	Kinds:       []ast.NodeKind{ast.KindUnion},
	Check:       checkUnionColumnMismatch,

	Rationale: `A set operation combines branches positionally. Different column counts
fail at execution on every engine; catching the mismatch during analysis
moves the failure before the run.`,

	BadExample: `SELECT id, name FROM customers
UNION ALL
SELECT id FROM suppliers`,

	GoodExample: `SELECT id, name FROM customers
UNION ALL
SELECT id, company_name FROM suppliers`,

	Fix: "Make every branch produce the same columns in the same order.",
}

func checkUnionColumnMismatch(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	body, ok := ev.Node.(*ast.SelectBody)
	if !ok || body.Right == nil {
		return nil
	}
	left, lok := explicitColumnCount(body.Left)
	right, rok := explicitColumnCount(body.Right.Left)
	if !lok || !rok || left == right {
		return nil
	}
	return []core.Diagnostic{diag(
		fmt.Sprintf("set-operation branches produce %d and %d columns", left, right),
		"make every branch produce the same columns in the same order",
		ev.Path)}
}

// explicitColumnCount counts output columns, reporting false when a star
// makes the count unknowable without schema information.
func explicitColumnCount(sc *ast.SelectCore) (int, bool) {
	if sc == nil {
		return 0, false
	}
	for _, item := range sc.Columns {
		if item.Star || item.TableStar != "" {
			return 0, false
		}
	}
	return len(sc.Columns), true
}
