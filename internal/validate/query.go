package validate

import (
	"github.com/etsangsplk/riak-ql/internal/aggregate"
	"github.com/etsangsplk/riak-ql/internal/ast"
	"github.com/etsangsplk/riak-ql/internal/ddl"
)

// Query validates a parsed select statement against a schema. An empty
// result means the query is valid.
//
// A table-name mismatch short-circuits every other check. Otherwise the
// selection list and the where tree are validated independently - both
// halves always run - and their error lists are concatenated, selection
// errors first, in evaluation order.
func Query(acc ddl.Accessor, schema *ddl.Schema, fns aggregate.Registry, q *ast.Query) []Error {
	if q.Table != schema.Table {
		return []Error{NewBucketTypeMismatch(schema.Table, q.Table)}
	}

	errs := validateSelections(acc, fns, q.Selections)
	errs = append(errs, validateWhere(acc, q.Where)...)
	return errs
}

// validateSelections checks each projection item independently,
// preserving order.
func validateSelections(acc ddl.Accessor, fns aggregate.Registry, sels []ast.Selection) []Error {
	// Unreachable through the accepted grammar: a bare select always
	// yields a wildcard or field list.
	if len(sels) == 0 {
		return []Error{NewSelectionsCantBeBlank()}
	}

	var errs []Error
	for _, sel := range sels {
		switch s := sel.(type) {
		case ast.FieldRef:
			if !acc.IsFieldValid(s.Path) {
				errs = append(errs, NewUnexpectedSelectField(s.Name()))
			}
		case ast.AggregateCall:
			arity, known := fns.Arity(s.Name)
			if !known || arity != len(s.Args) {
				errs = append(errs, NewFnCalledWithWrongArity(s.Name, len(s.Args)))
			}
		case ast.LiteralSelection, ast.Expression:
			// Accepted without further checking; expression and literal
			// type-checking in selections is not implemented.
		default:
			errs = append(errs, NewUnknownColumnType(ast.RenderSelection(sel)))
		}
	}
	return errs
}

// validateWhere folds the where tree depth first, left subtree before
// right, visiting predicate leaves. And/Or nodes are transparent. A nil
// tree means no filter and is valid.
func validateWhere(acc ddl.Accessor, node ast.WhereNode) []Error {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case ast.And:
		errs := validateWhere(acc, n.Left)
		return append(errs, validateWhere(acc, n.Right)...)
	case ast.Or:
		errs := validateWhere(acc, n.Left)
		return append(errs, validateWhere(acc, n.Right)...)
	case ast.FieldCompare:
		return validateFieldCompare(acc, n)
	case ast.FieldFieldCompare:
		return []Error{NewInvalidFieldOperation(n.FieldA, n.FieldB)}
	case ast.FieldExprCompare:
		return []Error{NewSubexpressionsNotSupported(n.Field, n.Op)}
	default:
		// The sealed WhereNode interface admits no other shapes.
		return nil
	}
}

// validateFieldCompare checks one field-vs-literal predicate. An unknown
// field stops the predicate immediately; otherwise the type and operator
// checks run independently of each other, so a single predicate can
// contribute two errors.
func validateFieldCompare(acc ddl.Accessor, cmp ast.FieldCompare) []Error {
	path := []string{cmp.Field}
	if !acc.IsFieldValid(path) {
		return []Error{NewUnexpectedWhereField(cmp.Field)}
	}

	expected := acc.FieldType(path)
	got := cmp.Lit.Type()

	var errs []Error
	if !IsCompatibleType(expected, got) {
		errs = append(errs, NewIncompatibleType(cmp.Field, expected, got))
	}
	if !IsCompatibleOperator(cmp.Op, expected, got) {
		errs = append(errs, NewIncompatibleOperator(cmp.Field, expected, cmp.Op))
	}
	return errs
}
