package ast

// NodeKind tags the node categories the analysis packages subscribe to.
// The set is closed; it deliberately abstracts over the concrete struct
// types so checks can be registered without naming parser types.
type NodeKind string

// NodeKind constants.
const (
	KindSelect     NodeKind = "SELECT"
	KindCTE        NodeKind = "CTE"
	KindJoin       NodeKind = "JOIN"
	KindTableRef   NodeKind = "TABLE_REF"
	KindWindowFunc NodeKind = "WINDOW_FUNCTION"
	KindOrderBy    NodeKind = "ORDER_BY"
	KindLimit      NodeKind = "LIMIT"
	KindUnion      NodeKind = "UNION"
	KindWhere      NodeKind = "WHERE"
	KindFuncCall   NodeKind = "FUNCTION_CALL"
	KindLiteral    NodeKind = "LITERAL"
	KindColumnRef  NodeKind = "COLUMN_REF"
	KindUnknown    NodeKind = "UNKNOWN"
)

// KindOf maps a node to its kind tag. Structural helper types that have no
// kind of their own (SelectItem, FromClause, clauses) return false.
func KindOf(node any) (NodeKind, bool) {
	switch n := node.(type) {
	case *SelectStmt, *SelectCore:
		return KindSelect, true
	case *CTE:
		return KindCTE, true
	case *Join:
		return KindJoin, true
	case *TableName, *DerivedTable:
		return KindTableRef, true
	case *FuncCall:
		if n.Window != nil {
			return KindWindowFunc, true
		}
		return KindFuncCall, true
	case *Literal:
		return KindLiteral, true
	case *ColumnRef:
		return KindColumnRef, true
	case *UnknownNode:
		return KindUnknown, true
	}
	return "", false
}
