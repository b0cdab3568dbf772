package validate

import (
	"fmt"

	"github.com/etsangsplk/riak-ql/internal/ast"
	"github.com/etsangsplk/riak-ql/internal/ddl"
)

// Code categorizes validation errors.
type Code string

const (
	// CodeBucketTypeMismatch indicates the statement names a different
	// table than the schema it was validated against.
	CodeBucketTypeMismatch Code = "BUCKET_TYPE_MISMATCH"

	// CodeUnexpectedSelectField indicates a selection references an
	// unknown field.
	CodeUnexpectedSelectField Code = "UNEXPECTED_SELECT_FIELD"

	// CodeUnexpectedWhereField indicates a where predicate references an
	// unknown field.
	CodeUnexpectedWhereField Code = "UNEXPECTED_WHERE_FIELD"

	// CodeUnexpectedInsertField indicates an insert column is unknown or
	// not a plain field reference.
	CodeUnexpectedInsertField Code = "UNEXPECTED_INSERT_FIELD"

	// CodeIncompatibleType indicates a literal's type cannot be compared
	// with the field's declared type.
	CodeIncompatibleType Code = "INCOMPATIBLE_TYPE"

	// CodeIncompatibleOperator indicates the operator is illegal for the
	// (field type, literal type) pair.
	CodeIncompatibleOperator Code = "INCOMPATIBLE_OPERATOR"

	// CodeInvalidFieldOperation indicates a field-to-field comparison,
	// which is unsupported.
	CodeInvalidFieldOperation Code = "INVALID_FIELD_OPERATION"

	// CodeSubexpressionsNotSupported indicates a comparison against an
	// arithmetic subexpression, which is rejected rather than evaluated.
	CodeSubexpressionsNotSupported Code = "SUBEXPRESSIONS_NOT_SUPPORTED"

	// CodeUnknownColumnType indicates a selection shape the validator
	// does not recognize.
	CodeUnknownColumnType Code = "UNKNOWN_COLUMN_TYPE"

	// CodeFnCalledWithWrongArity indicates an aggregate call with the
	// wrong number of arguments.
	CodeFnCalledWithWrongArity Code = "FN_CALLED_WITH_WRONG_ARITY"

	// CodeSelectionsCantBeBlank indicates an empty selection list.
	// Unreachable through the accepted grammar; kept as a defensive check.
	CodeSelectionsCantBeBlank Code = "SELECTIONS_CANT_BE_BLANK"

	// CodeInsertionsCantBeBlank indicates an explicit but empty insert
	// column list.
	CodeInsertionsCantBeBlank Code = "INSERTIONS_CANT_BE_BLANK"

	// CodeIncompatibleInsertType is the single undifferentiated verdict
	// for one or more rows failing whole-row validation.
	CodeIncompatibleInsertType Code = "INCOMPATIBLE_INSERT_TYPE"
)

// Error is one structured validation error. Which fields are populated
// depends on Code; Error() renders one display template per code.
type Error struct {
	Code Code

	// Field is the schema field or column the error concerns.
	Field string

	// OtherField is the right-hand field of a field-to-field comparison.
	OtherField string

	// SchemaTable and QueryTable are set for table mismatches.
	SchemaTable string
	QueryTable  string

	// Op is the comparison operator, for operator errors.
	Op ast.CompOp

	// Expected is the schema-declared field type.
	Expected ddl.FieldType

	// Got is the supplied literal type.
	Got ast.LiteralType

	// Fn, WantArity, and GotArity describe an aggregate arity error.
	Fn        string
	WantArity int
	GotArity  int
}

// Error renders the user-facing message for this error.
func (e Error) Error() string {
	switch e.Code {
	case CodeBucketTypeMismatch:
		return fmt.Sprintf("statement table %q does not match schema table %q", e.QueryTable, e.SchemaTable)
	case CodeUnexpectedSelectField:
		return fmt.Sprintf("unexpected field %q in select clause", e.Field)
	case CodeUnexpectedWhereField:
		return fmt.Sprintf("unexpected field %q in where clause", e.Field)
	case CodeUnexpectedInsertField:
		return fmt.Sprintf("unexpected column %q in insert statement", e.Field)
	case CodeIncompatibleType:
		return fmt.Sprintf("field %q of type %s cannot be compared to a %s literal", e.Field, e.Expected, e.Got)
	case CodeIncompatibleOperator:
		return fmt.Sprintf("operator %s is not legal for field %q of type %s", e.Op, e.Field, e.Expected)
	case CodeInvalidFieldOperation:
		return fmt.Sprintf("comparing field %q to field %q is not supported", e.Field, e.OtherField)
	case CodeSubexpressionsNotSupported:
		return fmt.Sprintf("subexpressions are not supported: field %q with operator %s", e.Field, e.Op)
	case CodeUnknownColumnType:
		return fmt.Sprintf("unknown column type in select clause: %s", e.Field)
	case CodeFnCalledWithWrongArity:
		return fmt.Sprintf("function %s called with %d arguments, expected %d", e.Fn, e.GotArity, e.WantArity)
	case CodeSelectionsCantBeBlank:
		return "selections cannot be blank"
	case CodeInsertionsCantBeBlank:
		return "insert column list cannot be blank"
	case CodeIncompatibleInsertType:
		return "incompatible insert type"
	default:
		return fmt.Sprintf("%s: validation error", e.Code)
	}
}

// NewBucketTypeMismatch builds the table-mismatch error.
func NewBucketTypeMismatch(schemaTable, queryTable string) Error {
	return Error{Code: CodeBucketTypeMismatch, SchemaTable: schemaTable, QueryTable: queryTable}
}

// NewUnexpectedSelectField builds the unknown-select-field error.
func NewUnexpectedSelectField(field string) Error {
	return Error{Code: CodeUnexpectedSelectField, Field: field}
}

// NewUnexpectedWhereField builds the unknown-where-field error.
func NewUnexpectedWhereField(field string) Error {
	return Error{Code: CodeUnexpectedWhereField, Field: field}
}

// NewUnexpectedInsertField builds the unknown-insert-column error.
func NewUnexpectedInsertField(field string) Error {
	return Error{Code: CodeUnexpectedInsertField, Field: field}
}

// NewIncompatibleType builds the literal/field type mismatch error.
func NewIncompatibleType(field string, expected ddl.FieldType, got ast.LiteralType) Error {
	return Error{Code: CodeIncompatibleType, Field: field, Expected: expected, Got: got}
}

// NewIncompatibleOperator builds the illegal-operator error.
func NewIncompatibleOperator(field string, expected ddl.FieldType, op ast.CompOp) Error {
	return Error{Code: CodeIncompatibleOperator, Field: field, Expected: expected, Op: op}
}

// NewInvalidFieldOperation builds the field-to-field comparison error.
func NewInvalidFieldOperation(fieldA, fieldB string) Error {
	return Error{Code: CodeInvalidFieldOperation, Field: fieldA, OtherField: fieldB}
}

// NewSubexpressionsNotSupported builds the subexpression rejection error.
func NewSubexpressionsNotSupported(field string, op ast.CompOp) Error {
	return Error{Code: CodeSubexpressionsNotSupported, Field: field, Op: op}
}

// NewUnknownColumnType builds the unrecognized-selection error.
func NewUnknownColumnType(rendered string) Error {
	return Error{Code: CodeUnknownColumnType, Field: rendered}
}

// NewFnCalledWithWrongArity builds the aggregate arity error. The
// declared arity is always reported as 1 regardless of the function's
// true arity; existing consumers depend on that literal behavior.
func NewFnCalledWithWrongArity(fn string, got int) Error {
	return Error{Code: CodeFnCalledWithWrongArity, Fn: fn, WantArity: 1, GotArity: got}
}

// NewSelectionsCantBeBlank builds the empty-selection-list error.
func NewSelectionsCantBeBlank() Error {
	return Error{Code: CodeSelectionsCantBeBlank}
}

// NewInsertionsCantBeBlank builds the empty-column-list error.
func NewInsertionsCantBeBlank() Error {
	return Error{Code: CodeInsertionsCantBeBlank}
}

// NewIncompatibleInsertType builds the undifferentiated row failure.
func NewIncompatibleInsertType() Error {
	return Error{Code: CodeIncompatibleInsertType}
}
