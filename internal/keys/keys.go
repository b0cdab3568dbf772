// Package keys evaluates a schema's key specifications, producing the
// ordered (type, value) tuples used for routing and storage placement.
//
// Two evaluation modes share one algorithm: object mode resolves field
// references against a stored row, mapping mode against a caller-supplied
// name-to-value map (point-lookup key construction from query
// predicates). Object mode never fails for a well-formed schema/row
// pair; mapping mode fails fast on the first absent reference.
package keys

import (
	"fmt"
	"strings"

	"github.com/etsangsplk/riak-ql/internal/ddl"
)

// Pair is one element of a derived key: the element's declared type and
// its (possibly ordering-transformed) value.
type Pair struct {
	Type  ddl.FieldType
	Value any
}

// MissingValueError reports a key-spec field reference absent from the
// value mapping handed to FromValues.
type MissingValueError struct {
	Name string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("missing value for key field %q", e.Name)
}

// PartitionKey evaluates the schema's partition key spec against a
// stored row. Output order is key-spec order, not field declaration
// order. It never fails for a well-formed schema/row pair; a malformed
// pairing is a defect and panics inside the accessor.
func PartitionKey(schema *ddl.Schema, acc ddl.Accessor, row ddl.Row) []Pair {
	return mustBuild(acc, schema.PartitionKey, objectResolver(acc, row))
}

// LocalKey evaluates the schema's local key spec against a stored row.
func LocalKey(schema *ddl.Schema, acc ddl.Accessor, row ddl.Row) []Pair {
	return mustBuild(acc, schema.LocalKey, objectResolver(acc, row))
}

// FromValues evaluates a key spec against a name-to-value mapping.
// The first referenced name absent from values - whether in a ParamRef
// component or nested in a HashFn argument - aborts with
// *MissingValueError.
func FromValues(acc ddl.Accessor, spec ddl.KeySpec, values map[string]any) ([]Pair, error) {
	return build(acc, spec, func(path []string) (any, bool) {
		v, ok := values[strings.Join(path, ".")]
		return v, ok
	})
}

// resolver produces the raw value for a field path, reporting whether
// the path could be resolved at all.
type resolver func(path []string) (any, bool)

// objectResolver resolves paths through the accessor; it cannot report
// a missing value (an unknown path panics in the accessor first).
func objectResolver(acc ddl.Accessor, row ddl.Row) resolver {
	return func(path []string) (any, bool) {
		return acc.Extract(row, path), true
	}
}

func mustBuild(acc ddl.Accessor, spec ddl.KeySpec, resolve resolver) []Pair {
	pairs, err := build(acc, spec, resolve)
	if err != nil {
		// Unreachable: the object resolver always resolves.
		panic(err)
	}
	return pairs
}

// build walks the key spec left to right, emitting one pair per
// component in spec order.
func build(acc ddl.Accessor, spec ddl.KeySpec, resolve resolver) ([]Pair, error) {
	pairs := make([]Pair, 0, len(spec))
	for _, comp := range spec {
		switch c := comp.(type) {
		case ddl.ParamRef:
			v, ok := resolve(c.Path)
			if !ok {
				return nil, &MissingValueError{Name: strings.Join(c.Path, ".")}
			}
			pairs = append(pairs, Pair{
				Type:  acc.FieldType(c.Path),
				Value: applyOrdering(v, c.Order),
			})
		case ddl.HashFn:
			args := make([]any, len(c.Args))
			for i, arg := range c.Args {
				switch a := arg.(type) {
				case ddl.ParamRef:
					// Function arguments receive the raw value; the
					// ordering transform applies only to top-level
					// ParamRef components.
					v, ok := resolve(a.Path)
					if !ok {
						return nil, &MissingValueError{Name: strings.Join(a.Path, ".")}
					}
					args[i] = v
				case ddl.Constant:
					args[i] = a.Value
				}
			}
			// The declared result type is authoritative; the return
			// value is tagged with it verbatim, never re-derived.
			pairs = append(pairs, Pair{Type: c.ResultType, Value: c.Fn(args...)})
		}
	}
	return pairs, nil
}

// applyOrdering applies a component's sort direction to its value.
// Descending negates integers and complements every byte of a byte
// string, which reverses its lexicographic order while preserving
// length. Value types with no defined reversal pass through unchanged,
// as does Ascending.
func applyOrdering(v any, o ddl.Ordering) any {
	if o != ddl.Descending {
		return v
	}
	switch val := v.(type) {
	case int64:
		return -val
	case int:
		return -val
	case []byte:
		out := make([]byte, len(val))
		for i, b := range val {
			out[i] = ^b
		}
		return out
	default:
		return v
	}
}
