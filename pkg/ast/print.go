package ast

import (
	"strings"
)

// ExprString renders an expression as normalized SQL text: keywords and
// function names upper-cased, identifiers as written, single spaces.
// Used for transformation text on lineage edges and for comparing column
// expressions structurally.
func ExprString(expr Expr) string {
	var b strings.Builder
	writeExpr(&b, expr)
	return b.String()
}

func writeExpr(b *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case nil:
		return

	case *ColumnRef:
		if e.Table != "" {
			b.WriteString(e.Table)
			b.WriteByte('.')
		}
		b.WriteString(e.Column)

	case *Literal:
		switch e.Type {
		case LiteralString:
			b.WriteByte('\'')
			b.WriteString(e.Value)
			b.WriteByte('\'')
		case LiteralNull:
			b.WriteString("NULL")
		case LiteralDate:
			b.WriteString("DATE '")
			b.WriteString(e.Value)
			b.WriteByte('\'')
		case LiteralTimestamp:
			b.WriteString("TIMESTAMP '")
			b.WriteString(e.Value)
			b.WriteByte('\'')
		default:
			b.WriteString(e.Value)
		}

	case *BinaryExpr:
		writeExpr(b, e.Left)
		b.WriteByte(' ')
		b.WriteString(strings.ToUpper(e.Op))
		b.WriteByte(' ')
		writeExpr(b, e.Right)

	case *UnaryExpr:
		b.WriteString(strings.ToUpper(e.Op))
		if strings.EqualFold(e.Op, "NOT") {
			b.WriteByte(' ')
		}
		writeExpr(b, e.Expr)

	case *FuncCall:
		b.WriteString(strings.ToUpper(e.Name))
		b.WriteByte('(')
		if e.Distinct {
			b.WriteString("DISTINCT ")
		}
		if e.Star {
			b.WriteByte('*')
		}
		for i, arg := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, arg)
		}
		b.WriteByte(')')
		if e.Window != nil {
			b.WriteString(" OVER (")
			writeWindow(b, e.Window)
			b.WriteByte(')')
		}

	case *CaseExpr:
		b.WriteString("CASE")
		if e.Operand != nil {
			b.WriteByte(' ')
			writeExpr(b, e.Operand)
		}
		for _, when := range e.Whens {
			b.WriteString(" WHEN ")
			writeExpr(b, when.Condition)
			b.WriteString(" THEN ")
			writeExpr(b, when.Result)
		}
		if e.Else != nil {
			b.WriteString(" ELSE ")
			writeExpr(b, e.Else)
		}
		b.WriteString(" END")

	case *CastExpr:
		b.WriteString("CAST(")
		writeExpr(b, e.Expr)
		b.WriteString(" AS ")
		b.WriteString(strings.ToUpper(e.TypeName))
		b.WriteByte(')')

	case *InExpr:
		writeExpr(b, e.Expr)
		if e.Not {
			b.WriteString(" NOT")
		}
		b.WriteString(" IN (")
		if e.Query != nil {
			b.WriteString("<subquery>")
		}
		for i, v := range e.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, v)
		}
		b.WriteByte(')')

	case *BetweenExpr:
		writeExpr(b, e.Expr)
		if e.Not {
			b.WriteString(" NOT")
		}
		b.WriteString(" BETWEEN ")
		writeExpr(b, e.Low)
		b.WriteString(" AND ")
		writeExpr(b, e.High)

	case *IsNullExpr:
		writeExpr(b, e.Expr)
		if e.Not {
			b.WriteString(" IS NOT NULL")
		} else {
			b.WriteString(" IS NULL")
		}

	case *LikeExpr:
		writeExpr(b, e.Expr)
		if e.Not {
			b.WriteString(" NOT")
		}
		b.WriteString(" LIKE ")
		writeExpr(b, e.Pattern)

	case *ParenExpr:
		b.WriteByte('(')
		writeExpr(b, e.Expr)
		b.WriteByte(')')

	case *StarExpr:
		if e.Table != "" {
			b.WriteString(e.Table)
			b.WriteByte('.')
		}
		b.WriteByte('*')

	case *SubqueryExpr:
		b.WriteString("(<subquery>)")

	case *ExistsExpr:
		if e.Not {
			b.WriteString("NOT ")
		}
		b.WriteString("EXISTS (<subquery>)")

	case *UnknownNode:
		b.WriteString("<unknown:")
		b.WriteString(e.Kind)
		b.WriteByte('>')
	}
}

func writeWindow(b *strings.Builder, w *WindowSpec) {
	if len(w.PartitionBy) > 0 {
		b.WriteString("PARTITION BY ")
		for i, p := range w.PartitionBy {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, p)
		}
	}
	if len(w.OrderBy) > 0 {
		if len(w.PartitionBy) > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("ORDER BY ")
		for i, o := range w.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, o.Expr)
			if o.Desc {
				b.WriteString(" DESC")
			}
		}
	}
}

// NormalizeExpr renders an expression in a form suitable for equality
// comparison: like ExprString but with identifiers lower-cased.
func NormalizeExpr(expr Expr) string {
	return strings.ToLower(ExprString(expr))
}
