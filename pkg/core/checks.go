package core

// CheckType identifies one diagnostic check. The set is closed: callers can
// enumerate it through the registry to report coverage.
type CheckType string

// Generic SQL quality checks.
const (
	CheckSelectStar          CheckType = "SELECT_STAR"
	CheckDistinctStar        CheckType = "DISTINCT_STAR"
	CheckMissingAlias        CheckType = "MISSING_ALIAS"
	CheckImplicitJoin        CheckType = "IMPLICIT_JOIN"
	CheckCartesianJoin       CheckType = "CARTESIAN_JOIN"
	CheckOrInJoin            CheckType = "OR_IN_JOIN"
	CheckWhereTautology      CheckType = "WHERE_1_EQUALS_1"
	CheckFunctionInWhere     CheckType = "FUNCTION_IN_WHERE"
	CheckHardcodedDate       CheckType = "HARDCODED_DATE"
	CheckLeadingWildcard     CheckType = "LEADING_WILDCARD"
	CheckOrderByNumber       CheckType = "ORDER_BY_NUMBER"
	CheckDuplicateColumn     CheckType = "DUPLICATE_COLUMN"
	CheckNestedSubquery      CheckType = "NESTED_SUBQUERY"
	CheckUnionColumnMismatch CheckType = "UNION_COLUMN_MISMATCH"
	CheckMissingGroupBy      CheckType = "MISSING_GROUP_BY"
)

// Determinism checks.
const (
	CheckWindowNoOrder        CheckType = "WINDOW_NO_ORDER"
	CheckWindowNonUniqueOrder CheckType = "WINDOW_NON_UNIQUE_ORDER"
	CheckFirstLastNoOrder     CheckType = "FIRST_LAST_NO_ORDER"
	CheckLagLeadNoOrder       CheckType = "LAG_LEAD_NO_ORDER"
	CheckLimitNoOrder         CheckType = "LIMIT_NO_ORDER"
	CheckVolatileFunction     CheckType = "VOLATILE_FUNCTION"
)

// Structural and engine-internal diagnostics. These are emitted by the
// walker and the rule runner rather than by registered checks, but they
// share the diagnostic record shape.
const (
	CheckUnresolvedReference CheckType = "UNRESOLVED_REFERENCE"
	CheckUnknownNode         CheckType = "UNKNOWN_NODE"
	CheckInternalError       CheckType = "INTERNAL_ERROR"
)

// CheckInfo describes a check for documentation and tooling output.
type CheckInfo struct {
	Type            CheckType `json:"type"`
	Name            string    `json:"name"`
	Group           string    `json:"group"`
	Description     string    `json:"description"`
	DefaultSeverity Severity  `json:"default_severity"`

	// Documentation fields
	Rationale   string `json:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty"`
	Fix         string `json:"fix,omitempty"`
}
