package validate

import (
	"github.com/etsangsplk/riak-ql/internal/ast"
	"github.com/etsangsplk/riak-ql/internal/ddl"
)

// Insert validates a parsed insert statement against a schema. An empty
// result means the insert is valid.
//
// A table-name mismatch short-circuits every other check. Explicit
// column errors are accumulated but then returned immediately - row
// type-checking never runs against a bad column list. Row failures
// collapse into the single undifferentiated IncompatibleInsertType with
// no indication of which row or column failed; both behaviors are
// intentional and consumers depend on them.
func Insert(acc ddl.Accessor, schema *ddl.Schema, ins *ast.Insert) []Error {
	if ins.Table != schema.Table {
		return []Error{NewBucketTypeMismatch(schema.Table, ins.Table)}
	}

	var cols []ast.FieldRef
	if ins.ImplicitColumns {
		// No column list in the statement: substitute the schema's full
		// field list in declared-position order.
		for _, fp := range acc.Positions() {
			cols = append(cols, ast.FieldRef{Path: fp.Path})
		}
	} else {
		refs, errs := validateColumns(acc, ins.Columns)
		if len(errs) > 0 {
			return errs
		}
		cols = refs
	}

	width := len(schema.Fields)
	for _, row := range ins.Rows {
		if !validateRow(acc, cols, row, width) {
			return []Error{NewIncompatibleInsertType()}
		}
	}
	return nil
}

// validateColumns checks an explicit column list: it must be non-empty
// and every entry must be a known field reference. All column errors are
// collected before returning.
func validateColumns(acc ddl.Accessor, cols []ast.Selection) ([]ast.FieldRef, []Error) {
	if len(cols) == 0 {
		return nil, []Error{NewInsertionsCantBeBlank()}
	}

	refs := make([]ast.FieldRef, 0, len(cols))
	var errs []Error
	for _, col := range cols {
		ref, ok := col.(ast.FieldRef)
		if !ok {
			errs = append(errs, NewUnexpectedInsertField(ast.RenderSelection(col)))
			continue
		}
		if !acc.IsFieldValid(ref.Path) {
			errs = append(errs, NewUnexpectedInsertField(ref.Name()))
			continue
		}
		refs = append(refs, ref)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return refs, nil
}

// validateRow pairs columns with row values positionally, builds a
// full-width buffer, and asks the accessor for a whole-row verdict.
//
// The pairing truncates the longer of the two sequences to the shorter -
// no arity mismatch is reported here; a short row simply leaves trailing
// slots not-provided, and the accessor's nullability rules decide. If
// two columns resolve to the same position the later write wins.
func validateRow(acc ddl.Accessor, cols []ast.FieldRef, row []ast.Literal, width int) bool {
	buffer := make([]any, width)
	for i := range buffer {
		buffer[i] = ddl.NotProvided
	}

	n := len(cols)
	if len(row) < n {
		n = len(row)
	}
	for i := 0; i < n; i++ {
		buffer[acc.Position(cols[i].Path)-1] = row[i].Value()
	}
	return acc.ValidateRow(buffer)
}
