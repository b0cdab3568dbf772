package harness

import (
	"fmt"

	"github.com/etsangsplk/riak-ql/internal/ast"
)

// buildQuery converts a YAML query statement to its AST form.
func buildQuery(stmt *QueryStmt) (*ast.Query, error) {
	q := &ast.Query{Table: stmt.Table}

	for i, sel := range stmt.Select {
		converted, err := buildSelection(sel)
		if err != nil {
			return nil, fmt.Errorf("select[%d]: %w", i, err)
		}
		q.Selections = append(q.Selections, converted)
	}

	if stmt.Where != nil {
		where, err := buildWhere(*stmt.Where)
		if err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		q.Where = where
	}
	return q, nil
}

// buildInsert converts a YAML insert statement to its AST form. A nil
// Columns pointer marks the statement as having no column list.
func buildInsert(stmt *InsertStmt) (*ast.Insert, error) {
	ins := &ast.Insert{
		Table:           stmt.Table,
		ImplicitColumns: stmt.Columns == nil,
	}
	if stmt.Columns != nil {
		for _, name := range *stmt.Columns {
			ins.Columns = append(ins.Columns, ast.Ref(name))
		}
	}

	for i, row := range stmt.Rows {
		built := make([]ast.Literal, len(row))
		for j, lit := range row {
			converted, err := buildLiteral(lit)
			if err != nil {
				return nil, fmt.Errorf("rows[%d][%d]: %w", i, j, err)
			}
			built[j] = converted
		}
		ins.Rows = append(ins.Rows, built)
	}
	return ins, nil
}

func buildSelection(sel Selection) (ast.Selection, error) {
	switch {
	case sel.Field != "":
		return ast.Ref(sel.Field), nil
	case sel.Literal != nil:
		lit, err := buildLiteral(*sel.Literal)
		if err != nil {
			return nil, err
		}
		return ast.LiteralSelection{Lit: lit}, nil
	case sel.Fn != "":
		args := make([]ast.Selection, len(sel.Args))
		for i, arg := range sel.Args {
			converted, err := buildSelection(arg)
			if err != nil {
				return nil, fmt.Errorf("args[%d]: %w", i, err)
			}
			args[i] = converted
		}
		return ast.AggregateCall{Name: sel.Fn, Args: args}, nil
	case sel.Expr != nil:
		expr, err := buildExpr(*sel.Expr)
		if err != nil {
			return nil, err
		}
		return expr, nil
	case sel.Negate != nil:
		inner, err := buildSelection(*sel.Negate)
		if err != nil {
			return nil, err
		}
		return ast.Negate{Inner: inner}, nil
	default:
		return nil, fmt.Errorf("selection needs one of field, literal, fn, expr, negate")
	}
}

func buildExpr(e Expr) (ast.Expression, error) {
	operands := make([]ast.Selection, len(e.Operands))
	for i, op := range e.Operands {
		converted, err := buildSelection(op)
		if err != nil {
			return ast.Expression{}, fmt.Errorf("operands[%d]: %w", i, err)
		}
		operands[i] = converted
	}
	return ast.Expression{Op: e.Op, Operands: operands}, nil
}

func buildWhere(node WhereNode) (ast.WhereNode, error) {
	if node.And != nil {
		left, err := buildWhere(node.And.Left)
		if err != nil {
			return nil, err
		}
		right, err := buildWhere(node.And.Right)
		if err != nil {
			return nil, err
		}
		return ast.And{Left: left, Right: right}, nil
	}
	if node.Or != nil {
		left, err := buildWhere(node.Or.Left)
		if err != nil {
			return nil, err
		}
		right, err := buildWhere(node.Or.Right)
		if err != nil {
			return nil, err
		}
		return ast.Or{Left: left, Right: right}, nil
	}

	op, err := parseOp(node.Op)
	if err != nil {
		return nil, err
	}
	switch {
	case node.FieldB != "":
		return ast.FieldFieldCompare{Op: op, FieldA: node.Field, FieldB: node.FieldB}, nil
	case node.Expr != nil:
		expr, err := buildExpr(*node.Expr)
		if err != nil {
			return nil, err
		}
		return ast.FieldExprCompare{Op: op, Field: node.Field, Expr: expr}, nil
	case node.Lit.isSet():
		lit, err := buildLiteral(node.Lit)
		if err != nil {
			return nil, err
		}
		return ast.FieldCompare{Op: op, Field: node.Field, Lit: lit}, nil
	default:
		return nil, fmt.Errorf("predicate on %q needs a literal, field_b, or expr", node.Field)
	}
}

func buildLiteral(lit Literal) (ast.Literal, error) {
	set := 0
	var out ast.Literal
	if lit.Integer != nil {
		set++
		out = ast.Integer(*lit.Integer)
	}
	if lit.Float != nil {
		set++
		out = ast.Float(*lit.Float)
	}
	if lit.Boolean != nil {
		set++
		out = ast.Boolean(*lit.Boolean)
	}
	if lit.Binary != nil {
		set++
		out = ast.Bin(*lit.Binary)
	}
	if set != 1 {
		return nil, fmt.Errorf("literal needs exactly one of integer, float, boolean, binary")
	}
	return out, nil
}

func parseOp(s string) (ast.CompOp, error) {
	switch s {
	case "=":
		return ast.OpEq, nil
	case "!=":
		return ast.OpNeq, nil
	case "<":
		return ast.OpLt, nil
	case "<=":
		return ast.OpLte, nil
	case ">":
		return ast.OpGt, nil
	case ">=":
		return ast.OpGte, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", s)
	}
}
