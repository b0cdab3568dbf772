package ast

import "fmt"

// LiteralType tags the concrete kind of a Literal, for diagnostics and
// the compatibility matrices.
type LiteralType int

const (
	IntegerLiteral LiteralType = iota
	FloatLiteral
	BooleanLiteral
	BinaryLiteral
)

// String returns the spelling used in error messages.
func (t LiteralType) String() string {
	switch t {
	case IntegerLiteral:
		return "integer"
	case FloatLiteral:
		return "float"
	case BooleanLiteral:
		return "boolean"
	case BinaryLiteral:
		return "binary"
	default:
		return fmt.Sprintf("LiteralType(%d)", int(t))
	}
}

// Literal is a parsed literal value.
//
// Sealed interface - only Integer, Float, Boolean, and Binary implement
// it.
type Literal interface {
	literal()
	// Type returns the literal's tag.
	Type() LiteralType
	// Value returns the raw Go value: int64, float64, bool, or []byte.
	Value() any
}

// Integer is a signed 64-bit integer literal.
type Integer int64

func (Integer) literal()          {}
func (Integer) Type() LiteralType { return IntegerLiteral }
func (i Integer) Value() any      { return int64(i) }

// Float is a 64-bit float literal.
type Float float64

func (Float) literal()          {}
func (Float) Type() LiteralType { return FloatLiteral }
func (f Float) Value() any      { return float64(f) }

// Boolean is a boolean literal.
type Boolean bool

func (Boolean) literal()          {}
func (Boolean) Type() LiteralType { return BooleanLiteral }
func (b Boolean) Value() any      { return bool(b) }

// Binary is a byte-string literal. SQL string literals arrive as Binary:
// the parser does not distinguish text from bytes.
type Binary []byte

func (Binary) literal()          {}
func (Binary) Type() LiteralType { return BinaryLiteral }
func (b Binary) Value() any      { return []byte(b) }

// Bin builds a Binary literal from a string.
func Bin(s string) Binary {
	return Binary(s)
}
