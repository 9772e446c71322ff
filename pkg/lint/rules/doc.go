// Package rules contains the defect checks for statement analysis.
// Import this package to register all checks:
//
//	import _ "github.com/metastack-labs/metasql/pkg/lint/rules"
//
// Checks are registered via init() functions in their respective files.
//
// Registered checks:
//   - SELECT_STAR: star in an output list hides schema drift
//   - DISTINCT_STAR: DISTINCT * deduplicates whole rows
//   - MISSING_ALIAS: repeated table reference without distinguishing aliases
//   - IMPLICIT_JOIN: comma join instead of explicit JOIN
//   - CARTESIAN_JOIN: join with no predicate multiplies rows
//   - OR_IN_JOIN: disjunctive join predicate defeats key matching
//   - WHERE_1_EQUALS_1: constant comparison in WHERE
//   - FUNCTION_IN_WHERE: function-wrapped column compared to a literal defeats index use
//   - HARDCODED_DATE: date literal in a filter goes stale
//   - LEADING_WILDCARD: LIKE '%...' cannot use an index
//   - ORDER_BY_NUMBER: positional ORDER BY breaks on reorder
//   - DUPLICATE_COLUMN: same expression projected twice
//   - NESTED_SUBQUERY: deeply nested subqueries hurt readability
//   - UNION_COLUMN_MISMATCH: set-operation branches disagree on arity
//   - MISSING_GROUP_BY: bare column next to an aggregate
package rules
