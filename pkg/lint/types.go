// Package lint runs data-driven checks over a statement traversal and
// aggregates their findings. Checks register themselves from init functions
// in the rules and determinism packages.
package lint

import (
	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/walker"
)

// Check groups.
const (
	GroupDefect      = "defect"
	GroupDeterminism = "determinism"
	GroupStructure   = "structure"
)

// CheckDef is a data-driven check definition. Checks are stateless; all
// context arrives through the walker event and the check context.
type CheckDef struct {
	Type        core.CheckType
	Name        string // dotted name, e.g. "defect.select_star"
	Group       string
	Description string
	Severity    core.Severity  // default severity, overridable per config
	Kinds       []ast.NodeKind // node kinds the check subscribes to
	Check       CheckFunc

	// Documentation fields surfaced by the checks catalog.
	Rationale   string
	BadExample  string
	GoodExample string
	Fix         string
}

// CheckFunc analyzes one walker event and returns findings. Returned
// diagnostics carry the check's default severity; the runner applies
// configured overrides afterwards.
type CheckFunc func(ev walker.Event, ctx *CheckContext) []core.Diagnostic

// CheckContext carries run configuration into check functions.
type CheckContext struct {
	Config  *Config
	Options map[string]any // check-specific options from configuration
}
