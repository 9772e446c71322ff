// Package config loads tool configuration from file, environment, and
// flags, and converts it into the check configuration and schema hints the
// analysis core consumes.
package config

import (
	"fmt"

	"github.com/metastack-labs/metasql/pkg/core"
	"github.com/metastack-labs/metasql/pkg/lint"
)

// Default values.
const (
	DefaultOutput = "table"
)

// Config is the full tool configuration.
type Config struct {
	// Concurrency bounds the batch worker count; zero means one per CPU.
	Concurrency int `koanf:"concurrency"`

	// Output selects the report format: table or json.
	Output string `koanf:"output"`

	Verbose bool `koanf:"verbose"`

	Checks      ChecksConfig      `koanf:"checks"`
	Determinism DeterminismConfig `koanf:"determinism"`
	Schema      SchemaConfig      `koanf:"schema"`
}

// ChecksConfig tunes individual checks without changing what they detect.
type ChecksConfig struct {
	// Disabled lists check types to suppress.
	Disabled []string `koanf:"disabled"`

	// Severity overrides default severities, keyed by check type.
	Severity map[string]string `koanf:"severity"`
}

// DeterminismConfig tunes the determinism checks.
type DeterminismConfig struct {
	// AssumeUniqueWhenUnknown suppresses the non-unique-order warning when
	// no key information exists. Off by default.
	AssumeUniqueWhenUnknown bool `koanf:"assume_unique_when_unknown"`
}

// SchemaConfig declares externally known table shapes.
type SchemaConfig struct {
	Tables map[string]TableSchema `koanf:"tables"`
}

// TableSchema is the declared shape of one table.
type TableSchema struct {
	Columns    []string `koanf:"columns"`
	PrimaryKey []string `koanf:"primary_key"`
}

// LintConfig converts the check settings into the core configuration.
// Unknown check types and severities are rejected so typos fail loudly.
func (c *Config) LintConfig() (*lint.Config, error) {
	lc := lint.DefaultConfig()
	lc.AssumeUniqueWhenUnknown = c.Determinism.AssumeUniqueWhenUnknown

	for _, name := range c.Checks.Disabled {
		lc.Disabled[core.CheckType(name)] = true
	}
	for name, sev := range c.Checks.Severity {
		parsed, ok := core.ParseSeverity(sev)
		if !ok {
			return nil, fmt.Errorf("checks.severity.%s: unknown severity %q", name, sev)
		}
		lc.SeverityOverrides[core.CheckType(name)] = parsed
	}
	return lc, nil
}

// SchemaHints converts declared tables into the hints the analyzers use,
// nil when no tables are declared.
func (c *Config) SchemaHints() *core.SchemaHints {
	if len(c.Schema.Tables) == 0 {
		return nil
	}
	hints := core.NewSchemaHints()
	for name, table := range c.Schema.Tables {
		hints.AddTable(name, table.Columns, table.PrimaryKey)
	}
	return hints
}
