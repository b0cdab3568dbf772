package ast

import "fmt"

// CompOp is a comparison operator in a where-clause predicate.
type CompOp int

const (
	OpEq CompOp = iota
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
)

// String returns the SQL spelling of the operator.
func (op CompOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	default:
		return fmt.Sprintf("CompOp(%d)", int(op))
	}
}

// Selection is one item of a query's projection list.
//
// Sealed interface - only FieldRef, LiteralSelection, AggregateCall,
// Expression, and Negate implement it.
type Selection interface {
	selection()
}

// FieldRef names a schema field. Paths have length 1 for flat fields;
// multi-segment paths are reserved for nested fields.
type FieldRef struct {
	Path []string
}

func (FieldRef) selection() {}

// Name returns the head segment, which is what diagnostics report.
func (f FieldRef) Name() string {
	if len(f.Path) == 0 {
		return ""
	}
	return f.Path[0]
}

// Ref builds a single-segment FieldRef.
func Ref(name string) FieldRef {
	return FieldRef{Path: []string{name}}
}

// LiteralSelection selects a bare literal value.
type LiteralSelection struct {
	Lit Literal
}

func (LiteralSelection) selection() {}

// AggregateCall is an aggregate function applied to selections.
type AggregateCall struct {
	Name string
	Args []Selection
}

func (AggregateCall) selection() {}

// Expression is an arithmetic expression over selections.
type Expression struct {
	Op       string
	Operands []Selection
}

func (Expression) selection() {}

// Negate is a negated selection.
type Negate struct {
	Inner Selection
}

func (Negate) selection() {}

// WhereNode is a node of the where-clause tree: And/Or internal nodes
// over predicate leaves.
//
// Sealed interface - only And, Or, FieldCompare, FieldFieldCompare, and
// FieldExprCompare implement it.
type WhereNode interface {
	whereNode()
}

// And combines two where subtrees conjunctively.
type And struct {
	Left  WhereNode
	Right WhereNode
}

func (And) whereNode() {}

// Or combines two where subtrees disjunctively.
type Or struct {
	Left  WhereNode
	Right WhereNode
}

func (Or) whereNode() {}

// FieldCompare compares a schema field against a literal. This is the
// canonical, validatable predicate shape.
type FieldCompare struct {
	Op    CompOp
	Field string
	Lit   Literal
}

func (FieldCompare) whereNode() {}

// FieldFieldCompare compares two schema fields. Comparing two fields is
// unsupported and always rejected by validation.
type FieldFieldCompare struct {
	Op     CompOp
	FieldA string
	FieldB string
}

func (FieldFieldCompare) whereNode() {}

// FieldExprCompare compares a schema field against an arithmetic
// subexpression. Subexpressions are rejected by validation, never
// evaluated.
type FieldExprCompare struct {
	Op    CompOp
	Field string
	Expr  Expression
}

func (FieldExprCompare) whereNode() {}

// Query is a parsed select statement: table, projection list, and
// optional where tree (nil means no filter).
type Query struct {
	Table      string
	Selections []Selection
	Where      WhereNode
}

// Insert is a parsed insert statement.
//
// ImplicitColumns is set by the upstream parser when the statement had
// no column list at all; it is a parser signal, not a statement about
// Columns being structurally empty. When set, validation substitutes the
// schema's full field list in declared-position order.
type Insert struct {
	Table           string
	Columns         []Selection
	ImplicitColumns bool
	Rows            [][]Literal
}
