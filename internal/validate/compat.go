package validate

import (
	"github.com/etsangsplk/riak-ql/internal/ast"
	"github.com/etsangsplk/riak-ql/internal/ddl"
)

// IsCompatibleType reports whether a literal of the given type may be
// compared against a field of the given schema type. The matrix is a
// total function: every pair not listed below is false.
//
//	timestamp x integer
//	boolean   x boolean
//	sint64    x integer
//	double    x float
//	varchar   x binary
func IsCompatibleType(schemaType ddl.FieldType, litType ast.LiteralType) bool {
	switch schemaType {
	case ddl.Timestamp:
		return litType == ast.IntegerLiteral
	case ddl.Boolean:
		return litType == ast.BooleanLiteral
	case ddl.SInt64:
		return litType == ast.IntegerLiteral
	case ddl.Double:
		return litType == ast.FloatLiteral
	case ddl.Varchar:
		return litType == ast.BinaryLiteral
	default:
		return false
	}
}

// IsCompatibleOperator reports whether the operator is legal for the
// (schema type, literal type) pair. Equality and inequality are the only
// legal operators for varchar/binary and boolean/boolean comparisons;
// every other pair accepts every operator (numeric and timestamp
// ordering comparisons are always legal).
func IsCompatibleOperator(op ast.CompOp, schemaType ddl.FieldType, litType ast.LiteralType) bool {
	switch {
	case schemaType == ddl.Varchar && litType == ast.BinaryLiteral:
		return op == ast.OpEq || op == ast.OpNeq
	case schemaType == ddl.Boolean && litType == ast.BooleanLiteral:
		return op == ast.OpEq || op == ast.OpNeq
	default:
		return true
	}
}
