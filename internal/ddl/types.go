package ddl

import "fmt"

// FieldType enumerates the column types supported by the DDL.
type FieldType int

const (
	Varchar FieldType = iota
	SInt64
	Double
	Timestamp
	Boolean
)

// String returns the DDL spelling of the type.
func (t FieldType) String() string {
	switch t {
	case Varchar:
		return "varchar"
	case SInt64:
		return "sint64"
	case Double:
		return "double"
	case Timestamp:
		return "timestamp"
	case Boolean:
		return "boolean"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// ParseFieldType converts a DDL type spelling to a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	switch s {
	case "varchar":
		return Varchar, nil
	case "sint64":
		return SInt64, nil
	case "double":
		return Double, nil
	case "timestamp":
		return Timestamp, nil
	case "boolean":
		return Boolean, nil
	default:
		return 0, fmt.Errorf("unknown field type %q", s)
	}
}

// Field is one column of a table definition.
type Field struct {
	Name     string
	Position int // 1-based declaration position
	Type     FieldType
	Optional bool
}

// Schema is a compiled table definition.
//
// Schemas are immutable: a schema change produces a new version rather
// than mutating an existing Schema. Field names are unique and positions
// follow declaration order starting at 1.
type Schema struct {
	Table        string
	Version      int
	Fields       []Field
	PartitionKey KeySpec
	LocalKey     KeySpec
}

// FieldByName returns the field with the given name.
func (s *Schema) FieldByName(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Row is a stored record, positional by field declaration order:
// slot i holds the value of the field at position i+1.
type Row []any

// Ordering selects the sort direction a key component applies to its value.
type Ordering int

const (
	Ascending Ordering = iota
	Descending
)

// String returns the DDL spelling of the ordering.
func (o Ordering) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// KeySpec describes how a partition or local key is computed: an ordered
// sequence of field references and/or derived function components. Key
// output order follows key-spec order, never field declaration order.
type KeySpec []KeyComponent

// KeyComponent is one element of a KeySpec.
//
// This is a sealed interface - only ParamRef and HashFn implement it.
// The marker method prevents external implementations and keeps the
// type switches in the key derivation engine exhaustive.
type KeyComponent interface {
	keyComponent()
}

// HashArg is an argument to a HashFn component.
//
// Sealed: only ParamRef and Constant implement it. A nested ParamRef
// resolves to its raw field value (no ordering transform); a Constant
// passes through unchanged.
type HashArg interface {
	hashArg()
}

// ParamRef references one schema field by path.
//
// Paths have length 1 for every flat field; multi-segment paths are
// reserved for nested fields. Every ParamRef in a schema's key specs must
// name an existing field - a spec that does not is a malformed schema and
// a defect, not a runtime input.
type ParamRef struct {
	Path  []string
	Order Ordering
}

func (ParamRef) keyComponent() {}
func (ParamRef) hashArg()      {}

// Param builds a single-segment ParamRef with ascending order.
func Param(name string) ParamRef {
	return ParamRef{Path: []string{name}}
}

// HashFunc is an opaque derived-key function, e.g. a time-bucketing
// quantizer. The engine invokes it with resolved arguments and does not
// inspect or validate its return value.
type HashFunc func(args ...any) any

// HashFn is a derived key component. The declared ResultType is
// authoritative: it tags the component's output verbatim and is never
// re-derived from the schema or from the function's actual return.
type HashFn struct {
	// Name identifies the function for serialization and display.
	Name string
	// Fn is the callable invoked during key derivation.
	Fn HashFunc
	// Args are resolved left to right before invocation.
	Args []HashArg
	// ResultType tags the emitted key element.
	ResultType FieldType
}

func (HashFn) keyComponent() {}

// Constant is a literal HashFn argument, passed through unchanged.
type Constant struct {
	Value any
}

func (Constant) hashArg() {}
