// Package harness runs declarative validation scenarios.
//
// A scenario is a YAML file listing query and insert statements in a
// structured form, each with the validation error codes it is expected
// to produce. The runner builds the statements, validates them against
// registered schemas, and reports per-step pass/fail. Golden files
// snapshot the rendered report so that message wording changes show up
// in review.
package harness
