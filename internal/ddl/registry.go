package ddl

import (
	"fmt"
	"sync"
)

// Registry holds compiled accessors keyed by (table, version).
//
// Accessors are registered once, before any validation or derivation call
// references them, and looked up many times. The registry is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*CompiledAccessor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*CompiledAccessor)}
}

// Register compiles the schema and stores its accessor under
// AccessorName(schema.Table, schema.Version). Registering the same
// (table, version) twice is an error - a schema change must bump the
// version instead.
func (r *Registry) Register(s *Schema) (*CompiledAccessor, error) {
	acc := Compile(s)
	name := AccessorName(s.Table, s.Version)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return nil, fmt.Errorf("ddl: accessor %s already registered", name)
	}
	r.entries[name] = acc
	return acc, nil
}

// Lookup returns the accessor compiled for (table, version).
func (r *Registry) Lookup(table string, version int) (*CompiledAccessor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.entries[AccessorName(table, version)]
	return acc, ok
}

// Tables returns the accessor names currently registered, in no
// particular order.
func (r *Registry) Tables() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}
