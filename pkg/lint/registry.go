package lint

import (
	"sort"
	"sync"

	"github.com/metastack-labs/metasql/pkg/core"
)

// globalRegistry is the single global registry for all checks.
var globalRegistry = &Registry{
	checks: make(map[core.CheckType]CheckDef),
}

// Registry stores registered checks for discovery.
type Registry struct {
	mu     sync.RWMutex
	checks map[core.CheckType]CheckDef
}

// Register adds a check to the global registry.
// Call this from init() functions in check packages.
func Register(check CheckDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.checks[check.Type] = check
}

// GetAll returns all registered checks, ordered by check type so callers
// see a stable catalog.
func GetAll() []CheckDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	checks := make([]CheckDef, 0, len(globalRegistry.checks))
	for _, check := range globalRegistry.checks {
		checks = append(checks, check)
	}
	sort.Slice(checks, func(i, j int) bool { return checks[i].Type < checks[j].Type })
	return checks
}

// GetByType returns a check by its type.
func GetByType(t core.CheckType) (CheckDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	check, ok := globalRegistry.checks[t]
	return check, ok
}

// GetByGroup returns all checks in a group, ordered by check type.
func GetByGroup(group string) []CheckDef {
	var checks []CheckDef
	for _, check := range GetAll() {
		if check.Group == group {
			checks = append(checks, check)
		}
	}
	return checks
}

// AllCheckTypes returns the fixed set of check type identifiers, including
// the structural kinds the walker itself reports.
func AllCheckTypes() []core.CheckType {
	types := make([]core.CheckType, 0, Count()+3)
	for _, check := range GetAll() {
		types = append(types, check.Type)
	}
	types = append(types,
		core.CheckUnresolvedReference,
		core.CheckUnknownNode,
		core.CheckInternalError)
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Count returns the number of registered checks.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.checks)
}

// Clear removes all registered checks. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.checks = make(map[core.CheckType]CheckDef)
}
