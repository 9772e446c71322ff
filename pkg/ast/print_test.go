package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExprString(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{
			name: "qualified column",
			expr: &ColumnRef{Table: "o", Column: "amount"},
			want: "o.amount",
		},
		{
			name: "string literal",
			expr: &Literal{Type: LiteralString, Value: "open"},
			want: "'open'",
		},
		{
			name: "null literal",
			expr: &Literal{Type: LiteralNull},
			want: "NULL",
		},
		{
			name: "date literal",
			expr: &Literal{Type: LiteralDate, Value: "2024-01-01"},
			want: "DATE '2024-01-01'",
		},
		{
			name: "binary with uppercased op",
			expr: &BinaryExpr{
				Left:  &ColumnRef{Column: "a"},
				Op:    "and",
				Right: &ColumnRef{Column: "b"},
			},
			want: "a AND b",
		},
		{
			name: "aggregate call",
			expr: &FuncCall{Name: "sum", Args: []Expr{&ColumnRef{Column: "amount"}}},
			want: "SUM(amount)",
		},
		{
			name: "count star",
			expr: &FuncCall{Name: "count", Star: true},
			want: "COUNT(*)",
		},
		{
			name: "window function",
			expr: &FuncCall{Name: "row_number", Window: &WindowSpec{
				PartitionBy: []Expr{&ColumnRef{Column: "dept"}},
				OrderBy:     []OrderByItem{{Expr: &ColumnRef{Column: "emp_id"}}},
			}},
			want: "ROW_NUMBER() OVER (PARTITION BY dept ORDER BY emp_id)",
		},
		{
			name: "cast",
			expr: &CastExpr{Expr: &ColumnRef{Column: "raw"}, TypeName: "int"},
			want: "CAST(raw AS INT)",
		},
		{
			name: "case",
			expr: &CaseExpr{
				Whens: []WhenClause{{
					Condition: &BinaryExpr{Left: &ColumnRef{Column: "n"}, Op: ">", Right: &Literal{Type: LiteralNumber, Value: "1"}},
					Result:    &Literal{Type: LiteralString, Value: "many"},
				}},
				Else: &Literal{Type: LiteralString, Value: "one"},
			},
			want: "CASE WHEN n > 1 THEN 'many' ELSE 'one' END",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExprString(tt.expr))
		})
	}
}
