package jsonquery

import (
	"strconv"
	"strings"

	"github.com/lateralquery/gqlpg/sql/dialect"
)

// Render walks a Select tree and produces its single-line, byte-stable SQL
// text. This is the only place in the repository that turns a jsonquery tree
// into text: the fixed rules (double-quoted identifiers, doubled-quote
// string escaping, no line breaks) live here and nowhere else, so golden
// tests only ever need to pin down this function's output.
func Render(sel *Select) string {
	e := &emitter{q: dialect.PostgreSQL}
	e.writeSelect(sel)
	return e.b.String()
}

type emitter struct {
	b strings.Builder
	q dialect.Dialect
}

func (e *emitter) writeSelect(s *Select) {
	e.b.WriteString("SELECT ")
	if len(s.DistinctOn) > 0 {
		e.b.WriteString("DISTINCT ON (")
		e.writeExprList(s.DistinctOn)
		e.b.WriteString(") ")
	}
	if len(s.Columns) == 0 {
		e.b.WriteString("*")
	} else {
		for i, c := range s.Columns {
			if i > 0 {
				e.b.WriteString(", ")
			}
			e.writeExpr(c.Expr)
			if c.Alias != "" {
				e.b.WriteString(" AS ")
				e.b.WriteString(e.q.QuoteIdentifier(c.Alias))
			}
		}
	}
	if !s.From.IsZero() {
		e.b.WriteString(" FROM ")
		e.writeFromItem(s.From)
	}
	for _, j := range s.Joins {
		e.b.WriteString(" LEFT JOIN LATERAL (")
		e.writeSelect(j.Sub)
		e.b.WriteString(") AS ")
		e.b.WriteString(e.q.QuoteIdentifier(j.Alias))
		e.b.WriteString(" ON ('true')")
	}
	if len(s.Where) > 0 {
		e.b.WriteString(" WHERE ")
		for i, w := range s.Where {
			if i > 0 {
				e.b.WriteString(" AND ")
			}
			e.writeExpr(w)
		}
	}
	if len(s.OrderBy) > 0 {
		e.b.WriteString(" ORDER BY ")
		for i, o := range s.OrderBy {
			if i > 0 {
				e.b.WriteString(", ")
			}
			e.writeExpr(o.Expr)
			if o.Desc {
				e.b.WriteString(" DESC")
			} else {
				e.b.WriteString(" ASC")
			}
		}
	}
	if s.Limit != nil {
		e.b.WriteString(" LIMIT ")
		e.writeExpr(s.Limit)
	}
	if s.Offset != nil {
		e.b.WriteString(" OFFSET ")
		e.writeExpr(s.Offset)
	}
}

func (e *emitter) writeFromItem(f FromItem) {
	switch {
	case f.Sub != nil:
		e.b.WriteString("(")
		e.writeSelect(f.Sub)
		e.b.WriteString(")")
	case f.Func != nil:
		e.writeExpr(*f.Func)
	default:
		e.b.WriteString(e.q.QuoteIdentifier(f.Table))
	}
	if f.Alias != "" {
		e.b.WriteString(" AS ")
		e.b.WriteString(e.q.QuoteIdentifier(f.Alias))
	}
}

func (e *emitter) writeExprList(exprs []Expr) {
	for i, x := range exprs {
		if i > 0 {
			e.b.WriteString(", ")
		}
		e.writeExpr(x)
	}
}

func (e *emitter) writeExpr(x Expr) {
	switch v := x.(type) {
	case Ident:
		e.b.WriteString(e.q.QuoteIdentifier(v.Name))
	case Qualified:
		e.b.WriteString(e.q.QuoteIdentifier(v.Qualifier))
		e.b.WriteString(".")
		e.b.WriteString(e.q.QuoteIdentifier(v.Name))
	case Param:
		e.b.WriteString("$")
		e.b.WriteString(strconv.Itoa(v.Index))
	case StringLit:
		e.b.WriteString(e.q.QuoteString(v.Value))
	case NumberLit:
		e.b.WriteString(v.Value)
	case BoolLit:
		if v.Value {
			e.b.WriteString("true")
		} else {
			e.b.WriteString("false")
		}
	case NullLit:
		e.b.WriteString("NULL")
	case BareIdent:
		e.b.WriteString(v.Name)
	case Tuple:
		e.b.WriteString("(")
		e.writeExprList(v.Items)
		e.b.WriteString(")")
	case FuncCall:
		e.b.WriteString(v.Name)
		e.b.WriteString("(")
		e.writeExprList(v.Args)
		e.b.WriteString(")")
	case Star:
		e.b.WriteString("*")
	case Binary:
		e.writeExpr(v.Left)
		e.b.WriteString(" ")
		e.b.WriteString(v.Op)
		e.b.WriteString(" ")
		e.writeExpr(v.Right)
	case And:
		e.writeBoolChain(v.Exprs, " AND ")
	case Or:
		e.writeBoolChain(v.Exprs, " OR ")
	case Not:
		e.b.WriteString("NOT ")
		e.writeExpr(v.Expr)
	case IsNull:
		e.writeExpr(v.Expr)
		if v.Negate {
			e.b.WriteString(" IS NOT NULL")
		} else {
			e.b.WriteString(" IS NULL")
		}
	case JSONBConcat:
		e.writeExpr(v.Left)
		e.b.WriteString(" || ")
		e.writeExpr(v.Right)
	case Cast:
		e.b.WriteString("CAST(")
		e.writeExpr(v.Expr)
		e.b.WriteString(" AS ")
		e.b.WriteString(v.Type)
		e.b.WriteString(")")
	case Case:
		e.b.WriteString("CASE")
		for _, w := range v.Whens {
			e.b.WriteString(" WHEN ")
			e.writeExpr(w.Cond)
			e.b.WriteString(" THEN ")
			e.writeExpr(w.Result)
		}
		if v.Else != nil {
			e.b.WriteString(" ELSE ")
			e.writeExpr(v.Else)
		}
		e.b.WriteString(" END")
	case Subquery:
		e.b.WriteString("(")
		e.writeSelect(v.Select)
		e.b.WriteString(")")
	case Raw:
		e.b.WriteString(v.SQL)
	}
}

// writeBoolChain renders a flat AND/OR chain, parenthesizing it when it has
// more than one member so it composes safely inside a larger WHERE/ORDER BY
// expression, e.g. "(\"branch\" = $3 OR \"branch\" = 'main')".
func (e *emitter) writeBoolChain(exprs []Expr, sep string) {
	paren := len(exprs) > 1
	if paren {
		e.b.WriteString("(")
	}
	for i, x := range exprs {
		if i > 0 {
			e.b.WriteString(sep)
		}
		e.writeExpr(x)
	}
	if paren {
		e.b.WriteString(")")
	}
}
