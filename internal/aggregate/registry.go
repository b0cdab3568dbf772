// Package aggregate declares the window aggregate functions selection
// validation consults. Only arity lives here; the functions themselves
// run in the query engine, outside this module.
package aggregate

import "strings"

// Registry resolves an aggregate function name to its declared arity.
type Registry interface {
	// Arity returns the declared argument count for the named function,
	// and whether the function is known at all. Names are matched
	// case-insensitively.
	Arity(name string) (int, bool)
}

// arityTable is a fixed name-to-arity Registry.
type arityTable map[string]int

func (t arityTable) Arity(name string) (int, bool) {
	n, ok := t[strings.ToUpper(name)]
	return n, ok
}

// Default is the built-in window aggregate registry.
var Default Registry = arityTable{
	"COUNT":       1,
	"SUM":         1,
	"AVG":         1,
	"MEAN":        1,
	"MIN":         1,
	"MAX":         1,
	"STDDEV":      1,
	"STDDEV_SAMP": 1,
	"STDDEV_POP":  1,
}
