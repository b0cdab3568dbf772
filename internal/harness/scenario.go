package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one validation scenario file.
type Scenario struct {
	// Name uniquely identifies the scenario. Golden files are keyed on
	// it.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description"`

	// Steps are executed in order. Each step validates one statement.
	Steps []Step `yaml:"steps"`
}

// Step validates a single statement against a registered schema.
// Exactly one of Query and Insert must be set.
type Step struct {
	// Name identifies the step in reports.
	Name string `yaml:"name"`

	// Query is a structured select statement.
	Query *QueryStmt `yaml:"query,omitempty"`

	// Insert is a structured insert statement.
	Insert *InsertStmt `yaml:"insert,omitempty"`

	// Schema optionally names the registered table to validate against.
	// It defaults to the statement's own table; setting it to a
	// different table exercises the table-mismatch check.
	Schema string `yaml:"schema,omitempty"`

	// Expect lists the error codes the statement must produce, in
	// order. An empty list means the statement must be valid.
	Expect []string `yaml:"expect"`
}

// QueryStmt is the YAML form of a select statement.
type QueryStmt struct {
	Table   string      `yaml:"table"`
	Version int         `yaml:"version,omitempty"`
	Select  []Selection `yaml:"select"`
	Where   *WhereNode  `yaml:"where,omitempty"`
}

// InsertStmt is the YAML form of an insert statement. A missing columns
// key means the statement had no column list and the schema's full
// field list applies; an explicitly empty list is a distinct, invalid
// shape.
type InsertStmt struct {
	Table   string      `yaml:"table"`
	Version int         `yaml:"version,omitempty"`
	Columns *[]string   `yaml:"columns,omitempty"`
	Rows    [][]Literal `yaml:"rows"`
}

// Selection is one projection item. Exactly one of the shape keys is
// set.
type Selection struct {
	Field   string      `yaml:"field,omitempty"`
	Literal *Literal    `yaml:"literal,omitempty"`
	Fn      string      `yaml:"fn,omitempty"`
	Args    []Selection `yaml:"args,omitempty"`
	Expr    *Expr       `yaml:"expr,omitempty"`
	Negate  *Selection  `yaml:"negate,omitempty"`
}

// Expr is an arithmetic expression over selections.
type Expr struct {
	Op       string      `yaml:"op"`
	Operands []Selection `yaml:"operands"`
}

// WhereNode is a node of the where tree: either an and/or pair or a
// single predicate leaf.
type WhereNode struct {
	And *WherePair `yaml:"and,omitempty"`
	Or  *WherePair `yaml:"or,omitempty"`

	// Leaf predicate fields. Op and Field combine with exactly one of
	// a literal key, FieldB, or Expr.
	Op     string  `yaml:"op,omitempty"`
	Field  string  `yaml:"field,omitempty"`
	FieldB string  `yaml:"field_b,omitempty"`
	Expr   *Expr   `yaml:"expr,omitempty"`
	Lit    Literal `yaml:",inline"`
}

// WherePair holds the two subtrees of an and/or node.
type WherePair struct {
	Left  WhereNode `yaml:"left"`
	Right WhereNode `yaml:"right"`
}

// Literal is a typed literal value. Exactly one key is set; the key
// names the literal's type.
type Literal struct {
	Integer *int64   `yaml:"integer,omitempty"`
	Float   *float64 `yaml:"float,omitempty"`
	Boolean *bool    `yaml:"boolean,omitempty"`
	Binary  *string  `yaml:"binary,omitempty"`
}

func (l Literal) isSet() bool {
	return l.Integer != nil || l.Float != nil || l.Boolean != nil || l.Binary != nil
}

// LoadScenario reads and parses a scenario file. Unknown YAML fields
// are rejected so that typos fail loudly instead of silently skipping
// an expectation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("harness: read scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("harness: parse scenario %s: %w", path, err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("harness: invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if (step.Query == nil) == (step.Insert == nil) {
			return fmt.Errorf("steps[%d]: exactly one of query and insert is required", i)
		}
		if step.Query != nil && step.Query.Table == "" {
			return fmt.Errorf("steps[%d]: query.table is required", i)
		}
		if step.Insert != nil && step.Insert.Table == "" {
			return fmt.Errorf("steps[%d]: insert.table is required", i)
		}
		if step.Expect == nil {
			return fmt.Errorf("steps[%d]: expect is required (use [] for a valid statement)", i)
		}
	}
	return nil
}
