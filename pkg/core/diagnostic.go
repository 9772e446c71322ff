package core

// Location points a diagnostic at the offending node: the statement it was
// found in plus the node path from that statement's root, e.g.
// "body.left.columns[2]".
type Location struct {
	StatementID string `json:"statement_id"`
	Path        string `json:"path"`
}

// Diagnostic represents one analysis finding. Diagnostics are immutable
// once emitted: the aggregator filters and sorts but never rewrites them.
type Diagnostic struct {
	CheckType  CheckType `json:"check_type"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	Location   Location  `json:"location"`

	// GroupKey is an opaque deduplication key. Two diagnostics with the
	// same non-empty key describe the same finding; the aggregator keeps
	// the first.
	GroupKey string `json:"-"`
}
