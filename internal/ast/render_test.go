package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderQuery(t *testing.T) {
	q := &Query{
		Table: "weather",
		Selections: []Selection{
			Ref("region"),
			AggregateCall{Name: "avg", Args: []Selection{Ref("temperature")}},
		},
		Where: And{
			Left:  FieldCompare{Op: OpEq, Field: "region", Lit: Bin("south")},
			Right: FieldCompare{Op: OpGt, Field: "time", Lit: Integer(5000)},
		},
	}

	assert.Equal(t,
		"SELECT region, AVG(temperature) FROM weather WHERE (region = 'south' AND time > 5000)",
		RenderQuery(q))
}

func TestRenderQueryNoWhere(t *testing.T) {
	q := &Query{Table: "weather", Selections: []Selection{Ref("time")}}
	assert.Equal(t, "SELECT time FROM weather", RenderQuery(q))
}

func TestRenderQueryEmptySelections(t *testing.T) {
	q := &Query{Table: "weather"}
	assert.Equal(t, "SELECT * FROM weather", RenderQuery(q))
}

func TestRenderInsertExplicitColumns(t *testing.T) {
	ins := &Insert{
		Table:   "weather",
		Columns: []Selection{Ref("region"), Ref("time")},
		Rows: [][]Literal{
			{Bin("south"), Integer(1)},
			{Bin("north"), Integer(2)},
		},
	}

	assert.Equal(t,
		"INSERT INTO weather (region, time) VALUES ('south', 1), ('north', 2)",
		RenderInsert(ins))
}

func TestRenderInsertImplicitColumns(t *testing.T) {
	ins := &Insert{
		Table:           "weather",
		ImplicitColumns: true,
		Rows:            [][]Literal{{Bin("south"), Integer(1)}},
	}

	assert.Equal(t, "INSERT INTO weather VALUES ('south', 1)", RenderInsert(ins))
}

func TestRenderWhereShapes(t *testing.T) {
	or := Or{
		Left:  FieldFieldCompare{Op: OpLt, FieldA: "a", FieldB: "b"},
		Right: FieldExprCompare{Op: OpGte, Field: "time", Expr: Expression{Op: "+", Operands: []Selection{Ref("time"), LiteralSelection{Lit: Integer(10)}}}},
	}

	assert.Equal(t, "(a < b OR time >= (time + 10))", renderWhere(or))
}

func TestRenderNegateAndLiterals(t *testing.T) {
	assert.Equal(t, "-temperature", RenderSelection(Negate{Inner: Ref("temperature")}))
	assert.Equal(t, "1.5", renderLiteral(Float(1.5)))
	assert.Equal(t, "true", renderLiteral(Boolean(true)))
}

func TestLiteralValues(t *testing.T) {
	assert.Equal(t, int64(42), Integer(42).Value())
	assert.Equal(t, 1.5, Float(1.5).Value())
	assert.Equal(t, true, Boolean(true).Value())
	assert.Equal(t, []byte("hi"), Bin("hi").Value())

	assert.Equal(t, IntegerLiteral, Integer(42).Type())
	assert.Equal(t, FloatLiteral, Float(1.5).Type())
	assert.Equal(t, BooleanLiteral, Boolean(true).Type())
	assert.Equal(t, BinaryLiteral, Bin("hi").Type())
}

func TestCompOpString(t *testing.T) {
	ops := map[CompOp]string{
		OpEq: "=", OpNeq: "!=", OpLt: "<", OpLte: "<=", OpGt: ">", OpGte: ">=",
	}
	for op, want := range ops {
		assert.Equal(t, want, op.String())
	}
}
