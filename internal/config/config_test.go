package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metastack-labs/metasql/pkg/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metasql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err, "an explicitly named missing file is an error")

	cfg, err = Load(writeConfig(t, ""), nil)
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, 0, cfg.Concurrency)
	assert.False(t, cfg.Verbose)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
output: json
concurrency: 8
checks:
  disabled:
    - SELECT_STAR
  severity:
    HARDCODED_DATE: warning
determinism:
  assume_unique_when_unknown: true
schema:
  tables:
    orders:
      columns: [order_id, amount]
      primary_key: [order_id]
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, []string{"SELECT_STAR"}, cfg.Checks.Disabled)
	assert.True(t, cfg.Determinism.AssumeUniqueWhenUnknown)
	require.Contains(t, cfg.Schema.Tables, "orders")
	assert.Equal(t, []string{"order_id"}, cfg.Schema.Tables["orders"].PrimaryKey)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "output: json\n")
	t.Setenv("METASQL_OUTPUT", "table")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	path := writeConfig(t, "output: json\nconcurrency: 8\n")
	t.Setenv("METASQL_CONCURRENCY", "4")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("concurrency", 0, "")
	flags.String("output", "table", "")
	require.NoError(t, flags.Parse([]string{"--concurrency", "2"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Concurrency, "changed flags beat env and file")
	assert.Equal(t, "json", cfg.Output, "unchanged flags do not override")
}

func TestLintConfig(t *testing.T) {
	cfg := &Config{
		Checks: ChecksConfig{
			Disabled: []string{"SELECT_STAR"},
			Severity: map[string]string{"HARDCODED_DATE": "error"},
		},
		Determinism: DeterminismConfig{AssumeUniqueWhenUnknown: true},
	}

	lc, err := cfg.LintConfig()
	require.NoError(t, err)
	assert.False(t, lc.Enabled(core.CheckSelectStar))
	assert.True(t, lc.Enabled(core.CheckOrInJoin))
	assert.Equal(t, core.SeverityError, lc.SeverityFor(core.CheckHardcodedDate, core.SeverityInfo))
	assert.True(t, lc.AssumeUniqueWhenUnknown)
}

func TestLintConfig_BadSeverity(t *testing.T) {
	cfg := &Config{
		Checks: ChecksConfig{Severity: map[string]string{"SELECT_STAR": "catastrophic"}},
	}
	_, err := cfg.LintConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catastrophic")
}

func TestSchemaHints(t *testing.T) {
	cfg := &Config{Schema: SchemaConfig{Tables: map[string]TableSchema{
		"Orders": {Columns: []string{"order_id", "amount"}, PrimaryKey: []string{"order_id"}},
	}}}

	hints := cfg.SchemaHints()
	require.NotNil(t, hints)
	assert.Equal(t, []string{"order_id", "amount"}, hints.TableColumns("orders"))
	assert.True(t, hints.IsPrimaryKey("orders", "order_id"))

	empty := &Config{}
	assert.Nil(t, empty.SchemaHints(), "no declared tables means no hints")
}
