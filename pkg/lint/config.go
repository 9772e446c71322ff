package lint

import "github.com/metastack-labs/metasql/pkg/core"

// Config controls which checks run and at what severity. Severity is data,
// not behavior: overriding it never changes what a check detects.
type Config struct {
	// Disabled suppresses checks entirely.
	Disabled map[core.CheckType]bool

	// SeverityOverrides replaces a check's default severity.
	SeverityOverrides map[core.CheckType]core.Severity

	// Options holds check-specific options keyed by check type.
	Options map[core.CheckType]map[string]any

	// AssumeUniqueWhenUnknown relaxes the uniqueness judgement for window
	// ordering when no key information is available. Off by default:
	// unresolved uniqueness is never treated as deterministic.
	AssumeUniqueWhenUnknown bool
}

// DefaultConfig returns a config with every check enabled at its default
// severity.
func DefaultConfig() *Config {
	return &Config{
		Disabled:          make(map[core.CheckType]bool),
		SeverityOverrides: make(map[core.CheckType]core.Severity),
		Options:           make(map[core.CheckType]map[string]any),
	}
}

// Enabled reports whether a check should run.
func (c *Config) Enabled(t core.CheckType) bool {
	if c == nil {
		return true
	}
	return !c.Disabled[t]
}

// SeverityFor resolves the effective severity of a check.
func (c *Config) SeverityFor(t core.CheckType, def core.Severity) core.Severity {
	if c == nil {
		return def
	}
	if s, ok := c.SeverityOverrides[t]; ok {
		return s
	}
	return def
}

// OptionsFor returns the configured options of a check, nil when none.
func (c *Config) OptionsFor(t core.CheckType) map[string]any {
	if c == nil {
		return nil
	}
	return c.Options[t]
}
