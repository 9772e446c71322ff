package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metastack-labs/metasql/internal/testutil"
	"github.com/metastack-labs/metasql/pkg/ast"
	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/walker"
)

const simpleStatement = `{
	"id": "s1",
	"select": {"body": {"left": {
		"columns": [{"expr": {"kind": "column_ref", "column": "a"}}],
		"from": {"source": {"kind": "table", "name": "t"}}
	}}}
}`

func firingCheck(ct core.CheckType, sev core.Severity) CheckDef {
	return CheckDef{
		Type:     ct,
		Name:     "test." + string(ct),
		Group:    GroupDefect,
		Severity: sev,
		Kinds:    []ast.NodeKind{ast.KindSelect},
		Check: func(ev walker.Event, _ *CheckContext) []core.Diagnostic {
			return []core.Diagnostic{{Message: "fired"}}
		},
	}
}

func TestRunner_FillsDefaults(t *testing.T) {
	Clear()
	t.Cleanup(Clear)
	Register(firingCheck("FIRES", core.SeverityWarning))

	r := NewRunner(nil, WithLogger(testutil.NewTestLogger(t)))
	diags, err := r.Run(testutil.MustDecode(t, simpleStatement), nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, core.CheckType("FIRES"), d.CheckType)
	assert.Equal(t, core.SeverityWarning, d.Severity)
	assert.Equal(t, "s1", d.Location.StatementID)
	assert.Equal(t, "select.body.left", d.Location.Path)
}

func TestRunner_DisabledCheckSkipped(t *testing.T) {
	Clear()
	t.Cleanup(Clear)
	Register(firingCheck("FIRES", core.SeverityWarning))

	cfg := DefaultConfig()
	cfg.Disabled["FIRES"] = true

	diags, err := NewRunner(cfg).Run(testutil.MustDecode(t, simpleStatement), nil)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestRunner_SeverityOverride(t *testing.T) {
	Clear()
	t.Cleanup(Clear)
	Register(firingCheck("FIRES", core.SeverityWarning))

	cfg := DefaultConfig()
	cfg.SeverityOverrides["FIRES"] = core.SeverityError

	diags, err := NewRunner(cfg).Run(testutil.MustDecode(t, simpleStatement), nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, core.SeverityError, diags[0].Severity)
}

func TestRunner_PanicBecomesInternalError(t *testing.T) {
	Clear()
	t.Cleanup(Clear)
	Register(CheckDef{
		Type:     "EXPLODES",
		Name:     "test.explodes",
		Group:    GroupDefect,
		Severity: core.SeverityWarning,
		Kinds:    []ast.NodeKind{ast.KindSelect},
		Check: func(_ walker.Event, _ *CheckContext) []core.Diagnostic {
			panic("boom")
		},
	})
	Register(firingCheck("SURVIVES", core.SeverityWarning))

	diags, err := NewRunner(nil, WithLogger(testutil.NewTestLogger(t))).
		Run(testutil.MustDecode(t, simpleStatement), nil)
	require.NoError(t, err, "a panicking check must not fail the run")
	require.Len(t, diags, 2)

	var internal, survived bool
	for _, d := range diags {
		switch d.CheckType {
		case core.CheckInternalError:
			internal = true
			assert.Equal(t, core.SeverityError, d.Severity)
			assert.Contains(t, d.Message, "EXPLODES")
			assert.Contains(t, d.Message, "boom")
		case "SURVIVES":
			survived = true
		}
	}
	assert.True(t, internal, "expected an internal error diagnostic")
	assert.True(t, survived, "other checks must still run")
}

func TestRunner_StructuralDiagnosticsIncluded(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	// Forward CTE reference raises a structural diagnostic from the walk.
	stmt := testutil.MustDecode(t, `{
		"id": "s2",
		"select": {
			"with": {"ctes": [
				{"name": "a", "select": {"body": {"left": {
					"columns": [{"expr": {"kind": "column_ref", "column": "x"}}],
					"from": {"source": {"kind": "table", "name": "b"}}}}}},
				{"name": "b", "select": {"body": {"left": {
					"columns": [{"expr": {"kind": "column_ref", "column": "x"}}],
					"from": {"source": {"kind": "table", "name": "base"}}}}}}
			]},
			"body": {"left": {
				"columns": [{"expr": {"kind": "column_ref", "column": "x"}}],
				"from": {"source": {"kind": "table", "name": "a"}}
			}}
		}
	}`)

	diags, err := NewRunner(nil).Run(stmt, nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, core.CheckUnresolvedReference, diags[0].CheckType)
}

func TestRunner_StructuralSeverityOverride(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	cfg := DefaultConfig()
	cfg.SeverityOverrides[core.CheckUnknownNode] = core.SeverityWarning

	stmt := testutil.MustDecode(t, `{
		"id": "s3",
		"select": {"body": {"left": {
			"columns": [{"expr": {"kind": "weird_node"}, "alias": "x"}],
			"from": {"source": {"kind": "table", "name": "t"}}
		}}}
	}`)

	diags, err := NewRunner(cfg).Run(stmt, nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, core.SeverityWarning, diags[0].Severity,
		"severity overrides apply to structural diagnostics too")
}

func TestRunner_NilStatement(t *testing.T) {
	_, err := NewRunner(nil).Run(nil, nil)
	require.ErrorIs(t, err, core.ErrNilStatement)
}

func TestConfig_NilSafe(t *testing.T) {
	var cfg *Config
	assert.True(t, cfg.Enabled("ANY"))
	assert.Equal(t, core.SeverityInfo, cfg.SeverityFor("ANY", core.SeverityInfo))
	assert.Nil(t, cfg.OptionsFor("ANY"))
}
