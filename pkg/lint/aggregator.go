package lint

import (
	"sort"
	"sync"

	"github.com/metastack-labs/metasql/pkg/core"
)

// Aggregator collects diagnostics append-only, keyed by statement, and
// serves them deduplicated and sorted. Diagnostics are never mutated after
// Add. Safe for concurrent use so parallel statement analyses can share
// one aggregator.
type Aggregator struct {
	mu    sync.Mutex
	order []string // statement IDs in first-seen order
	byID  map[string][]core.Diagnostic
	seen  map[string]bool // group keys already admitted
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		byID: make(map[string][]core.Diagnostic),
		seen: make(map[string]bool),
	}
}

// Add admits diagnostics, dropping any whose group key was already seen.
// The first occurrence wins.
func (a *Aggregator) Add(diags ...core.Diagnostic) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, d := range diags {
		if d.GroupKey != "" && a.seen[d.GroupKey] {
			continue
		}
		if d.GroupKey != "" {
			a.seen[d.GroupKey] = true
		}
		id := d.Location.StatementID
		if _, ok := a.byID[id]; !ok {
			a.order = append(a.order, id)
		}
		a.byID[id] = append(a.byID[id], d)
	}
}

// Diagnostics returns all findings: statements in first-seen order, and
// within a statement sorted by severity (errors first), then location,
// then check type.
func (a *Aggregator) Diagnostics() []core.Diagnostic {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []core.Diagnostic
	for _, id := range a.order {
		batch := make([]core.Diagnostic, len(a.byID[id]))
		copy(batch, a.byID[id])
		sort.SliceStable(batch, func(i, j int) bool {
			if batch[i].Severity != batch[j].Severity {
				return batch[i].Severity < batch[j].Severity
			}
			if batch[i].Location.Path != batch[j].Location.Path {
				return batch[i].Location.Path < batch[j].Location.Path
			}
			return batch[i].CheckType < batch[j].CheckType
		})
		out = append(out, batch...)
	}
	return out
}

// ForStatement returns the findings of one statement, sorted as in
// Diagnostics.
func (a *Aggregator) ForStatement(id string) []core.Diagnostic {
	all := a.Diagnostics()
	var out []core.Diagnostic
	for _, d := range all {
		if d.Location.StatementID == id {
			out = append(out, d)
		}
	}
	return out
}

// Summary counts findings per check type.
func (a *Aggregator) Summary() map[core.CheckType]int {
	a.mu.Lock()
	defer a.mu.Unlock()

	counts := make(map[core.CheckType]int)
	for _, batch := range a.byID {
		for _, d := range batch {
			counts[d.CheckType]++
		}
	}
	return counts
}
