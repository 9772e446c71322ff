package ast

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeStatement decodes the JSON statement form emitted by external
// parsers. Expressions and table references are objects discriminated by a
// "kind" field; an unrecognized kind decodes to UnknownNode rather than
// failing, so newer parser output degrades gracefully.
func DecodeStatement(data []byte) (*Statement, error) {
	var raw jsonStatement
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode statement: %w", err)
	}
	sel, err := decodeSelect(raw.Select)
	if err != nil {
		return nil, err
	}
	return &Statement{ID: raw.ID, Select: sel}, nil
}

type jsonStatement struct {
	ID     string          `json:"id"`
	Select json.RawMessage `json:"select"`
}

type jsonSelect struct {
	With *jsonWith       `json:"with"`
	Body json.RawMessage `json:"body"`
}

type jsonWith struct {
	Recursive bool       `json:"recursive"`
	CTEs      []*jsonCTE `json:"ctes"`
}

type jsonCTE struct {
	Name    string          `json:"name"`
	Columns []string        `json:"columns"`
	Select  json.RawMessage `json:"select"`
}

type jsonBody struct {
	Left  json.RawMessage `json:"left"`
	Op    string          `json:"op"`
	All   bool            `json:"all"`
	Right json.RawMessage `json:"right"`
}

type jsonCore struct {
	Distinct bool              `json:"distinct"`
	Columns  []json.RawMessage `json:"columns"`
	From     *jsonFrom         `json:"from"`
	Where    json.RawMessage   `json:"where"`
	GroupBy  []json.RawMessage `json:"group_by"`
	Having   json.RawMessage   `json:"having"`
	OrderBy  []jsonOrderItem   `json:"order_by"`
	Limit    json.RawMessage   `json:"limit"`
	Offset   json.RawMessage   `json:"offset"`
}

type jsonSelectItem struct {
	Star      bool            `json:"star"`
	TableStar string          `json:"table_star"`
	Expr      json.RawMessage `json:"expr"`
	Alias     string          `json:"alias"`
}

type jsonFrom struct {
	Source json.RawMessage `json:"source"`
	Joins  []*jsonJoin     `json:"joins"`
}

type jsonJoin struct {
	Type  string          `json:"type"`
	Right json.RawMessage `json:"right"`
	On    json.RawMessage `json:"on"`
	Using []string        `json:"using"`
}

type jsonOrderItem struct {
	Expr json.RawMessage `json:"expr"`
	Desc bool            `json:"desc"`
}

type jsonWindow struct {
	PartitionBy []json.RawMessage `json:"partition_by"`
	OrderBy     []jsonOrderItem   `json:"order_by"`
	Frame       *jsonFrame        `json:"frame"`
}

type jsonFrame struct {
	Type  string `json:"type"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func decodeSelect(data json.RawMessage) (*SelectStmt, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var raw jsonSelect
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode select: %w", err)
	}

	stmt := &SelectStmt{}
	if raw.With != nil {
		with := &WithClause{Recursive: raw.With.Recursive}
		for _, c := range raw.With.CTEs {
			inner, err := decodeSelect(c.Select)
			if err != nil {
				return nil, fmt.Errorf("cte %q: %w", c.Name, err)
			}
			with.CTEs = append(with.CTEs, &CTE{Name: c.Name, Columns: c.Columns, Select: inner})
		}
		stmt.With = with
	}

	body, err := decodeBody(raw.Body)
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

func decodeBody(data json.RawMessage) (*SelectBody, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var raw jsonBody
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	left, err := decodeCore(raw.Left)
	if err != nil {
		return nil, err
	}
	right, err := decodeBody(raw.Right)
	if err != nil {
		return nil, err
	}
	return &SelectBody{
		Left:  left,
		Op:    SetOpType(strings.ToUpper(raw.Op)),
		All:   raw.All,
		Right: right,
	}, nil
}

func decodeCore(data json.RawMessage) (*SelectCore, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var raw jsonCore
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode select core: %w", err)
	}

	core := &SelectCore{Distinct: raw.Distinct}

	for i, col := range raw.Columns {
		var item jsonSelectItem
		if err := json.Unmarshal(col, &item); err != nil {
			return nil, fmt.Errorf("decode column %d: %w", i, err)
		}
		si := SelectItem{Star: item.Star, TableStar: item.TableStar, Alias: item.Alias}
		if len(item.Expr) > 0 {
			expr, err := decodeExpr(item.Expr)
			if err != nil {
				return nil, fmt.Errorf("column %d: %w", i, err)
			}
			si.Expr = expr
		}
		core.Columns = append(core.Columns, si)
	}

	if raw.From != nil {
		from := &FromClause{}
		source, err := decodeTableRef(raw.From.Source)
		if err != nil {
			return nil, err
		}
		from.Source = source
		for _, j := range raw.From.Joins {
			right, err := decodeTableRef(j.Right)
			if err != nil {
				return nil, err
			}
			join := &Join{Type: JoinType(strings.ToUpper(j.Type)), Right: right, Using: j.Using}
			if j.Type == "," {
				join.Type = JoinComma
			}
			if len(j.On) > 0 && string(j.On) != "null" {
				on, err := decodeExpr(j.On)
				if err != nil {
					return nil, err
				}
				join.On = on
			}
			from.Joins = append(from.Joins, join)
		}
		core.From = from
	}

	var err error
	if core.Where, err = decodeOptExpr(raw.Where); err != nil {
		return nil, err
	}
	for _, g := range raw.GroupBy {
		expr, err := decodeExpr(g)
		if err != nil {
			return nil, err
		}
		core.GroupBy = append(core.GroupBy, expr)
	}
	if core.Having, err = decodeOptExpr(raw.Having); err != nil {
		return nil, err
	}
	if core.OrderBy, err = decodeOrderBy(raw.OrderBy); err != nil {
		return nil, err
	}
	if core.Limit, err = decodeOptExpr(raw.Limit); err != nil {
		return nil, err
	}
	if core.Offset, err = decodeOptExpr(raw.Offset); err != nil {
		return nil, err
	}
	return core, nil
}

func decodeOrderBy(items []jsonOrderItem) ([]OrderByItem, error) {
	var out []OrderByItem
	for _, it := range items {
		expr, err := decodeExpr(it.Expr)
		if err != nil {
			return nil, err
		}
		out = append(out, OrderByItem{Expr: expr, Desc: it.Desc})
	}
	return out, nil
}

func decodeTableRef(data json.RawMessage) (TableRef, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode table ref: %w", err)
	}

	switch probe.Kind {
	case "table", "":
		var t struct {
			Schema string `json:"schema"`
			Name   string `json:"name"`
			Alias  string `json:"alias"`
		}
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, err
		}
		return &TableName{Schema: t.Schema, Name: t.Name, Alias: t.Alias}, nil

	case "derived":
		var d struct {
			Alias  string          `json:"alias"`
			Select json.RawMessage `json:"select"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		sel, err := decodeSelect(d.Select)
		if err != nil {
			return nil, err
		}
		return &DerivedTable{Select: sel, Alias: d.Alias}, nil
	}
	return nil, fmt.Errorf("unknown table ref kind %q", probe.Kind)
}

func decodeOptExpr(data json.RawMessage) (Expr, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	return decodeExpr(data)
}

func decodeExpr(data json.RawMessage) (Expr, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode expr: %w", err)
	}

	switch probe.Kind {
	case "column_ref":
		var e struct {
			Table  string `json:"table"`
			Column string `json:"column"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &ColumnRef{Table: e.Table, Column: e.Column}, nil

	case "literal":
		var e struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &Literal{Type: literalTypeFrom(e.Type), Value: e.Value}, nil

	case "binary":
		var e struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		left, err := decodeExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(e.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Left: left, Op: e.Op, Right: right}, nil

	case "unary":
		var e struct {
			Op   string          `json:"op"`
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: e.Op, Expr: inner}, nil

	case "func_call":
		var e struct {
			Name     string            `json:"name"`
			Distinct bool              `json:"distinct"`
			Star     bool              `json:"star"`
			Args     []json.RawMessage `json:"args"`
			Over     *jsonWindow       `json:"over"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		fc := &FuncCall{Name: e.Name, Distinct: e.Distinct, Star: e.Star}
		for _, a := range e.Args {
			arg, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			fc.Args = append(fc.Args, arg)
		}
		if e.Over != nil {
			w := &WindowSpec{}
			for _, p := range e.Over.PartitionBy {
				expr, err := decodeExpr(p)
				if err != nil {
					return nil, err
				}
				w.PartitionBy = append(w.PartitionBy, expr)
			}
			var err error
			if w.OrderBy, err = decodeOrderBy(e.Over.OrderBy); err != nil {
				return nil, err
			}
			if e.Over.Frame != nil {
				w.Frame = &FrameSpec{
					Type:  FrameType(strings.ToUpper(e.Over.Frame.Type)),
					Start: FrameBound(strings.ToUpper(e.Over.Frame.Start)),
					End:   FrameBound(strings.ToUpper(e.Over.Frame.End)),
				}
			}
			fc.Window = w
		}
		return fc, nil

	case "case":
		var e struct {
			Operand json.RawMessage `json:"operand"`
			Whens   []struct {
				Condition json.RawMessage `json:"condition"`
				Result    json.RawMessage `json:"result"`
			} `json:"whens"`
			Else json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		ce := &CaseExpr{}
		var err error
		if ce.Operand, err = decodeOptExpr(e.Operand); err != nil {
			return nil, err
		}
		for _, w := range e.Whens {
			cond, err := decodeExpr(w.Condition)
			if err != nil {
				return nil, err
			}
			res, err := decodeExpr(w.Result)
			if err != nil {
				return nil, err
			}
			ce.Whens = append(ce.Whens, WhenClause{Condition: cond, Result: res})
		}
		if ce.Else, err = decodeOptExpr(e.Else); err != nil {
			return nil, err
		}
		return ce, nil

	case "cast":
		var e struct {
			Expr     json.RawMessage `json:"expr"`
			TypeName string          `json:"type_name"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return &CastExpr{Expr: inner, TypeName: e.TypeName}, nil

	case "in":
		var e struct {
			Expr   json.RawMessage   `json:"expr"`
			Not    bool              `json:"not"`
			Values []json.RawMessage `json:"values"`
			Query  json.RawMessage   `json:"query"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		in := &InExpr{Expr: inner, Not: e.Not}
		for _, v := range e.Values {
			val, err := decodeExpr(v)
			if err != nil {
				return nil, err
			}
			in.Values = append(in.Values, val)
		}
		if in.Query, err = decodeSelect(e.Query); err != nil {
			return nil, err
		}
		return in, nil

	case "between":
		var e struct {
			Expr json.RawMessage `json:"expr"`
			Not  bool            `json:"not"`
			Low  json.RawMessage `json:"low"`
			High json.RawMessage `json:"high"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		low, err := decodeExpr(e.Low)
		if err != nil {
			return nil, err
		}
		high, err := decodeExpr(e.High)
		if err != nil {
			return nil, err
		}
		return &BetweenExpr{Expr: inner, Not: e.Not, Low: low, High: high}, nil

	case "is_null":
		var e struct {
			Expr json.RawMessage `json:"expr"`
			Not  bool            `json:"not"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return &IsNullExpr{Expr: inner, Not: e.Not}, nil

	case "like":
		var e struct {
			Expr    json.RawMessage `json:"expr"`
			Not     bool            `json:"not"`
			Pattern json.RawMessage `json:"pattern"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		pattern, err := decodeExpr(e.Pattern)
		if err != nil {
			return nil, err
		}
		return &LikeExpr{Expr: inner, Not: e.Not, Pattern: pattern}, nil

	case "paren":
		var e struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return &ParenExpr{Expr: inner}, nil

	case "star":
		var e struct {
			Table string `json:"table"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &StarExpr{Table: e.Table}, nil

	case "subquery":
		var e struct {
			Select json.RawMessage `json:"select"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		sel, err := decodeSelect(e.Select)
		if err != nil {
			return nil, err
		}
		return &SubqueryExpr{Select: sel}, nil

	case "exists":
		var e struct {
			Not    bool            `json:"not"`
			Select json.RawMessage `json:"select"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		sel, err := decodeSelect(e.Select)
		if err != nil {
			return nil, err
		}
		return &ExistsExpr{Not: e.Not, Select: sel}, nil
	}

	// Unrecognized kind: preserve the tag and any children so the walker
	// can still traverse through it.
	var e struct {
		Children []json.RawMessage `json:"children"`
	}
	_ = json.Unmarshal(data, &e)
	unknown := &UnknownNode{Kind: probe.Kind}
	for _, c := range e.Children {
		child, err := decodeExpr(c)
		if err != nil {
			continue
		}
		unknown.Children = append(unknown.Children, child)
	}
	return unknown, nil
}

func literalTypeFrom(s string) LiteralType {
	switch strings.ToLower(s) {
	case "string":
		return LiteralString
	case "bool":
		return LiteralBool
	case "null":
		return LiteralNull
	case "date":
		return LiteralDate
	case "timestamp":
		return LiteralTimestamp
	default:
		return LiteralNumber
	}
}
