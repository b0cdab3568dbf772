// Package ddl holds the compiled table definitions (schemas) of the
// time-series query layer, the key-specification AST that describes how
// partition and local keys are computed, and the per-table Accessor built
// from a schema.
//
// A Schema is immutable once constructed. One Schema exists per
// (table, version) pair and is compiled exactly once into an Accessor,
// which every validator and key-derivation call takes as an explicit
// parameter. Compiled accessors are held behind a Registry keyed by
// (table, version).
package ddl
