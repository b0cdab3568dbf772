// Package ast defines the statement fragments the upstream SQL parser
// produces and the validators consume: literals, selection items, the
// where-clause tree, and insert statements.
//
// Every AST type here is a closed tagged variant behind a sealed
// interface (marker-method pattern), so the validators and the key
// derivation engine can match them exhaustively. AST values are
// immutable inputs: no consumer in this module retains or mutates them
// past a single call.
package ast
