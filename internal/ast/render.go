package ast

import (
	"fmt"
	"strings"
)

// RenderQuery produces SQL-ish text for a query, for CLI and diagnostic
// output. The rendering is display-only: it is not fed back to a parser
// and makes no quoting guarantees beyond readability.
func RenderQuery(q *Query) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(q.Selections) == 0 {
		b.WriteString("*")
	} else {
		for i, sel := range q.Selections {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(renderSelection(sel))
		}
	}
	b.WriteString(" FROM ")
	b.WriteString(q.Table)
	if q.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(renderWhere(q.Where))
	}
	return b.String()
}

// RenderInsert produces SQL-ish text for an insert statement.
func RenderInsert(ins *Insert) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(ins.Table)
	if !ins.ImplicitColumns && len(ins.Columns) > 0 {
		b.WriteString(" (")
		for i, col := range ins.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(renderSelection(col))
		}
		b.WriteString(")")
	}
	b.WriteString(" VALUES ")
	for i, row := range ins.Rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j, lit := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(renderLiteral(lit))
		}
		b.WriteString(")")
	}
	return b.String()
}

// RenderSelection produces display text for a single selection item.
func RenderSelection(sel Selection) string {
	return renderSelection(sel)
}

func renderSelection(sel Selection) string {
	switch s := sel.(type) {
	case FieldRef:
		return strings.Join(s.Path, ".")
	case LiteralSelection:
		return renderLiteral(s.Lit)
	case AggregateCall:
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = renderSelection(a)
		}
		return fmt.Sprintf("%s(%s)", strings.ToUpper(s.Name), strings.Join(args, ", "))
	case Expression:
		parts := make([]string, len(s.Operands))
		for i, o := range s.Operands {
			parts[i] = renderSelection(o)
		}
		return "(" + strings.Join(parts, " "+s.Op+" ") + ")"
	case Negate:
		return "-" + renderSelection(s.Inner)
	default:
		return fmt.Sprintf("<%T>", sel)
	}
}

func renderWhere(node WhereNode) string {
	switch n := node.(type) {
	case And:
		return "(" + renderWhere(n.Left) + " AND " + renderWhere(n.Right) + ")"
	case Or:
		return "(" + renderWhere(n.Left) + " OR " + renderWhere(n.Right) + ")"
	case FieldCompare:
		return fmt.Sprintf("%s %s %s", n.Field, n.Op, renderLiteral(n.Lit))
	case FieldFieldCompare:
		return fmt.Sprintf("%s %s %s", n.FieldA, n.Op, n.FieldB)
	case FieldExprCompare:
		return fmt.Sprintf("%s %s %s", n.Field, n.Op, renderSelection(n.Expr))
	default:
		return fmt.Sprintf("<%T>", node)
	}
}

func renderLiteral(lit Literal) string {
	switch l := lit.(type) {
	case Integer:
		return fmt.Sprintf("%d", int64(l))
	case Float:
		return fmt.Sprintf("%g", float64(l))
	case Boolean:
		return fmt.Sprintf("%t", bool(l))
	case Binary:
		return "'" + string(l) + "'"
	default:
		return fmt.Sprintf("<%T>", lit)
	}
}
