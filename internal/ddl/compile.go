package ddl

import "fmt"

// CompiledAccessor is the reference Accessor implementation, built once
// per schema by Compile. All lookups resolve through maps prepared at
// compile time; the value is read-only afterwards and safe for
// concurrent use without locking.
type CompiledAccessor struct {
	schema *Schema
	byPath map[string]Field
}

var _ Accessor = (*CompiledAccessor)(nil)

// Compile builds the accessor for a schema.
//
// Compile panics if the schema is malformed: duplicate field names,
// positions that do not follow declaration order, or a key-spec ParamRef
// naming a non-existent field. A malformed schema is a configuration
// defect, not a runtime input.
func Compile(s *Schema) *CompiledAccessor {
	byPath := make(map[string]Field, len(s.Fields))
	for i, f := range s.Fields {
		if f.Position != i+1 {
			panic(fmt.Sprintf("ddl: schema %q: field %q declared at position %d, want %d", s.Table, f.Name, f.Position, i+1))
		}
		if _, dup := byPath[f.Name]; dup {
			panic(fmt.Sprintf("ddl: schema %q: duplicate field %q", s.Table, f.Name))
		}
		byPath[f.Name] = f
	}

	a := &CompiledAccessor{schema: s, byPath: byPath}
	checkKeySpec(a, s, "partition key", s.PartitionKey)
	checkKeySpec(a, s, "local key", s.LocalKey)
	return a
}

// checkKeySpec asserts every ParamRef in the key spec names a schema field.
func checkKeySpec(a *CompiledAccessor, s *Schema, which string, spec KeySpec) {
	for _, comp := range spec {
		switch c := comp.(type) {
		case ParamRef:
			if !a.IsFieldValid(c.Path) {
				panic(fmt.Sprintf("ddl: schema %q: %s references unknown field %q", s.Table, which, pathKey(c.Path)))
			}
		case HashFn:
			for _, arg := range c.Args {
				if ref, ok := arg.(ParamRef); ok && !a.IsFieldValid(ref.Path) {
					panic(fmt.Sprintf("ddl: schema %q: %s %s() references unknown field %q", s.Table, which, c.Name, pathKey(ref.Path)))
				}
			}
		}
	}
}

// Schema returns the schema this accessor was compiled from.
func (a *CompiledAccessor) Schema() *Schema {
	return a.schema
}

// IsFieldValid reports whether the path names a schema field.
func (a *CompiledAccessor) IsFieldValid(path []string) bool {
	_, ok := a.byPath[pathKey(path)]
	return ok
}

// FieldType returns the declared type of the field at path.
func (a *CompiledAccessor) FieldType(path []string) FieldType {
	return a.mustField(path).Type
}

// Position returns the 1-based declaration position of the field at path.
func (a *CompiledAccessor) Position(path []string) int {
	return a.mustField(path).Position
}

// Positions returns every field path with its position, in declaration order.
func (a *CompiledAccessor) Positions() []FieldPosition {
	out := make([]FieldPosition, len(a.schema.Fields))
	for i, f := range a.schema.Fields {
		out[i] = FieldPosition{Path: []string{f.Name}, Position: f.Position}
	}
	return out
}

// Extract returns the raw value the row holds for the field at path.
func (a *CompiledAccessor) Extract(row Row, path []string) any {
	return row[a.mustField(path).Position-1]
}

// ValidateRow applies per-field type and nullability rules to a
// full-width row buffer. A slot holding NotProvided (or nil) is legal iff
// the field is optional; otherwise the value's Go type must match the
// field's declared type.
func (a *CompiledAccessor) ValidateRow(buffer []any) bool {
	if len(buffer) != len(a.schema.Fields) {
		return false
	}
	for i, f := range a.schema.Fields {
		v := buffer[i]
		if v == nil {
			if !f.Optional {
				return false
			}
			continue
		}
		if _, absent := v.(notProvidedMarker); absent {
			if !f.Optional {
				return false
			}
			continue
		}
		if !valueMatchesType(v, f.Type) {
			return false
		}
	}
	return true
}

func (a *CompiledAccessor) mustField(path []string) Field {
	f, ok := a.byPath[pathKey(path)]
	if !ok {
		panic(fmt.Sprintf("ddl: schema %q has no field %q", a.schema.Table, pathKey(path)))
	}
	return f
}

// valueMatchesType reports whether a raw Go value is storable under the
// declared field type.
func valueMatchesType(v any, t FieldType) bool {
	switch t {
	case Varchar:
		switch v.(type) {
		case []byte, string:
			return true
		}
	case SInt64, Timestamp:
		switch v.(type) {
		case int64, int:
			return true
		}
	case Double:
		_, ok := v.(float64)
		return ok
	case Boolean:
		_, ok := v.(bool)
		return ok
	}
	return false
}
