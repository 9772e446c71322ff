// Package determinism contains checks for result stability across repeated
// executions on identical data, plus the tie-breaker suggestion and
// monitoring-column helpers. Import this package to register the checks:
//
//	import _ "github.com/metastack-labs/metasql/pkg/determinism"
//
// Registered checks:
//   - WINDOW_NO_ORDER: ranking window without ORDER BY
//   - WINDOW_NON_UNIQUE_ORDER: window ORDER BY does not pin row order
//   - FIRST_LAST_NO_ORDER: FIRST_VALUE/LAST_VALUE without ORDER BY
//   - LAG_LEAD_NO_ORDER: LAG/LEAD without ORDER BY
//   - LIMIT_NO_ORDER: LIMIT without an outer ORDER BY
//   - VOLATILE_FUNCTION: non-deterministic built-in in output or ordering
package determinism
