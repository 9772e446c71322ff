package rules

import (
	"fmt"
	"strings"

	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
	"github.com/metastack-labs/metasql/pkg/walker"
)

func init() {
	lint.Register(MissingAlias)
}

// MissingAlias flags a table joined to itself without distinguishing aliases.
var MissingAlias = lint.CheckDef{
	Type:        core.CheckMissingAlias,
	Name:        "defect.missing_alias",
	Group:       lint.GroupDefect,
	Description: "A table referenced more than once needs aliases to keep its uses apart.",
	Severity:    core.SeverityInfo,
	Kinds:       []ast.NodeKind{ast.KindSelect},
	Check:       checkMissingAlias,

	Rationale: `When the same table appears twice in one FROM clause without aliases,
every column reference to it is ambiguous: the engine either rejects the
query or silently binds to one of the two uses. Aliasing each reference
makes the binding explicit.`,

	BadExample: `SELECT * FROM employees JOIN employees ON manager_id = employee_id`,

	GoodExample: `SELECT * FROM employees e JOIN employees m ON e.manager_id = m.employee_id`,

	Fix: "Give every repeated table reference its own alias.",
}

func checkMissingAlias(ev walker.Event, _ *lint.CheckContext) []core.Diagnostic {
	sc, ok := ev.Node.(*ast.SelectCore)
	if !ok || sc.From == nil {
		return nil
	}

	type operand struct {
		table *ast.TableName
		path  string
	}
	var ops []operand
	if t, ok := sc.From.Source.(*ast.TableName); ok {
		ops = append(ops, operand{t, ev.Path + ".from.source"})
	}
	for i, join := range sc.From.Joins {
		if t, ok := join.Right.(*ast.TableName); ok {
			ops = append(ops, operand{t, fmt.Sprintf("%s.from.joins[%d]", ev.Path, i)})
		}
	}

	uses := make(map[string]int)
	for _, op := range ops {
		uses[strings.ToLower(op.table.Name)]++
	}

	reported := make(map[string]bool)
	var out []core.Diagnostic
	for _, op := range ops {
		name := strings.ToLower(op.table.Name)
		if op.table.Alias != "" || uses[name] < 2 || reported[name] {
			continue
		}
		reported[name] = true
		out = append(out, diag(
			fmt.Sprintf("table %s is referenced %d times without a distinguishing alias", op.table.Name, uses[name]),
			"alias each reference so column bindings are unambiguous",
			op.path))
	}
	return out
}
