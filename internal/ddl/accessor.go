package ddl

import "strings"

// notProvidedMarker is the sentinel type for row slots with no value.
// The unexported type guarantees no legitimate value can collide with it.
type notProvidedMarker struct{}

func (notProvidedMarker) String() string { return "<not provided>" }

// NotProvided marks an insert row slot that received no value. Row buffers
// are pre-filled with it before column values are written in, and
// ValidateRow treats it as "absent" rather than as a value of any type.
var NotProvided notProvidedMarker

// FieldPosition pairs a field path with its 1-based declaration position.
type FieldPosition struct {
	Path     []string
	Position int
}

// Accessor is the per-table capability every validator and key-derivation
// call requires: field metadata lookup, value extraction, and whole-row
// validation. One Accessor is compiled per (table, version) and is safe
// for concurrent use - it is built once and read-only afterwards.
//
// Metadata lookups that take a path (FieldType, Position, Extract) must
// only be called for paths that IsFieldValid accepts. Calling them with an
// unknown path means the schema and its caller disagree, which is a
// malformed-schema defect; the compiled accessor panics rather than
// returning a validation error.
type Accessor interface {
	// IsFieldValid reports whether the path names a schema field.
	IsFieldValid(path []string) bool

	// FieldType returns the declared type of the field at path.
	FieldType(path []string) FieldType

	// Position returns the 1-based declaration position of the field.
	Position(path []string) int

	// Positions returns every field path with its position, in
	// declaration order.
	Positions() []FieldPosition

	// Extract returns the raw value the row holds for the field at path.
	Extract(row Row, path []string) any

	// ValidateRow applies the table's per-field type and nullability
	// rules to a full-width row buffer and returns a whole-row verdict.
	ValidateRow(buffer []any) bool
}

// pathKey flattens a field path to a map key.
func pathKey(path []string) string {
	if len(path) == 1 {
		return path[0]
	}
	return strings.Join(path, ".")
}
