// Package validate checks parsed query and insert statements against a
// compiled schema: field existence, type compatibility, operator
// legality, and aggregate arity.
//
// Query validation accumulates - every independently checkable error is
// collected and returned in one pass, so a user can fix several mistakes
// in a single round trip. The only short circuit is a table-name
// mismatch, which suppresses all other checks. Insert validation
// accumulates column errors but stops before row type-checking when any
// column is bad, and collapses all row-level failures into one
// undifferentiated result. Both asymmetries are load-bearing for
// existing consumers.
package validate
