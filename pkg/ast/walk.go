package ast

// Walk traverses a tree depth-first pre-order and calls fn for each node.
// If fn returns false for a node, that node's children are skipped.
// Traversal order is deterministic: left-to-right, outer-to-inner.
func Walk(node any, fn func(node any) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	walkChildren(node, fn)
}

func walkChildren(node any, fn func(node any) bool) {
	switch n := node.(type) {
	case *Statement:
		if n == nil {
			return
		}
		Walk(n.Select, fn)

	case *SelectStmt:
		if n == nil {
			return
		}
		Walk(n.With, fn)
		Walk(n.Body, fn)

	case *WithClause:
		if n == nil {
			return
		}
		for _, cte := range n.CTEs {
			Walk(cte, fn)
		}

	case *CTE:
		if n == nil {
			return
		}
		Walk(n.Select, fn)

	case *SelectBody:
		if n == nil {
			return
		}
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *SelectCore:
		if n == nil {
			return
		}
		for _, col := range n.Columns {
			Walk(col.Expr, fn)
		}
		Walk(n.From, fn)
		Walk(n.Where, fn)
		for _, expr := range n.GroupBy {
			Walk(expr, fn)
		}
		Walk(n.Having, fn)
		for _, item := range n.OrderBy {
			Walk(item.Expr, fn)
		}
		Walk(n.Limit, fn)
		Walk(n.Offset, fn)

	case *FromClause:
		if n == nil {
			return
		}
		Walk(n.Source, fn)
		for _, join := range n.Joins {
			Walk(join, fn)
		}

	case *Join:
		if n == nil {
			return
		}
		Walk(n.Right, fn)
		Walk(n.On, fn)

	case *TableName:
		// leaf

	case *DerivedTable:
		if n == nil {
			return
		}
		Walk(n.Select, fn)

	case *BinaryExpr:
		if n == nil {
			return
		}
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *UnaryExpr:
		if n == nil {
			return
		}
		Walk(n.Expr, fn)

	case *FuncCall:
		if n == nil {
			return
		}
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
		if n.Window != nil {
			for _, p := range n.Window.PartitionBy {
				Walk(p, fn)
			}
			for _, o := range n.Window.OrderBy {
				Walk(o.Expr, fn)
			}
		}

	case *CaseExpr:
		if n == nil {
			return
		}
		Walk(n.Operand, fn)
		for _, when := range n.Whens {
			Walk(when.Condition, fn)
			Walk(when.Result, fn)
		}
		Walk(n.Else, fn)

	case *CastExpr:
		if n == nil {
			return
		}
		Walk(n.Expr, fn)

	case *InExpr:
		if n == nil {
			return
		}
		Walk(n.Expr, fn)
		for _, v := range n.Values {
			Walk(v, fn)
		}
		Walk(n.Query, fn)

	case *BetweenExpr:
		if n == nil {
			return
		}
		Walk(n.Expr, fn)
		Walk(n.Low, fn)
		Walk(n.High, fn)

	case *IsNullExpr:
		if n == nil {
			return
		}
		Walk(n.Expr, fn)

	case *LikeExpr:
		if n == nil {
			return
		}
		Walk(n.Expr, fn)
		Walk(n.Pattern, fn)

	case *ParenExpr:
		if n == nil {
			return
		}
		Walk(n.Expr, fn)

	case *SubqueryExpr:
		if n == nil {
			return
		}
		Walk(n.Select, fn)

	case *ExistsExpr:
		if n == nil {
			return
		}
		Walk(n.Select, fn)

	case *UnknownNode:
		if n == nil {
			return
		}
		for _, c := range n.Children {
			Walk(c, fn)
		}
	}
}

// CollectColumns returns all column references in an expression, in
// traversal order. Subqueries are not descended into: their columns belong
// to an inner scope.
func CollectColumns(expr Expr) []*ColumnRef {
	var refs []*ColumnRef
	Walk(expr, func(node any) bool {
		switch n := node.(type) {
		case *ColumnRef:
			refs = append(refs, n)
		case *SubqueryExpr, *ExistsExpr:
			return false
		case *InExpr:
			// visit Expr and Values, not the subquery
			if n.Query != nil {
				Walk(n.Expr, func(inner any) bool {
					if ref, ok := inner.(*ColumnRef); ok {
						refs = append(refs, ref)
					}
					return true
				})
				for _, v := range n.Values {
					Walk(v, func(inner any) bool {
						if ref, ok := inner.(*ColumnRef); ok {
							refs = append(refs, ref)
						}
						return true
					})
				}
				return false
			}
		}
		return true
	})
	return refs
}

// CollectSelectBodies returns every SelectBody in the statement, including
// set-operation branches, in traversal order.
func CollectSelectBodies(stmt *SelectStmt) []*SelectBody {
	var bodies []*SelectBody
	Walk(stmt, func(node any) bool {
		if body, ok := node.(*SelectBody); ok && body != nil {
			bodies = append(bodies, body)
		}
		return true
	})
	return bodies
}

// MainCore returns the outermost SelectCore of a statement, or nil.
func MainCore(stmt *SelectStmt) *SelectCore {
	if stmt == nil || stmt.Body == nil {
		return nil
	}
	return stmt.Body.Left
}
