package harness

import (
	"fmt"

	"github.com/etsangsplk/riak-ql/internal/aggregate"
	"github.com/etsangsplk/riak-ql/internal/ast"
	"github.com/etsangsplk/riak-ql/internal/ddl"
	"github.com/etsangsplk/riak-ql/internal/validate"
)

// StepResult records the outcome of one scenario step.
type StepResult struct {
	Name      string
	Statement string   // rendered SQL form of the statement
	Want      []string // expected error codes
	Got       []string // produced error codes
	Messages  []string // rendered error messages
	Passed    bool
}

// Result is the outcome of running a scenario.
type Result struct {
	Scenario string
	Steps    []StepResult
	Failures int
}

// Passed reports whether every step produced exactly its expected
// codes.
func (r *Result) Passed() bool {
	return r.Failures == 0
}

// Run executes every step of a scenario against schemas registered in
// reg. A step fails when the produced error codes differ from the
// expected list; order matters, since validators report in a defined
// order. Run returns an error only for scenario defects: a table the
// registry does not know, or a statement that cannot be built.
func Run(reg *ddl.Registry, scenario *Scenario) (*Result, error) {
	result := &Result{Scenario: scenario.Name}

	for i, step := range scenario.Steps {
		var (
			statement string
			errs      []validate.Error
		)
		switch {
		case step.Query != nil:
			acc, err := lookup(reg, schemaTable(step, step.Query.Table), step.Query.Version)
			if err != nil {
				return nil, fmt.Errorf("harness: steps[%d] %s: %w", i, step.Name, err)
			}
			q, err := buildQuery(step.Query)
			if err != nil {
				return nil, fmt.Errorf("harness: steps[%d] %s: %w", i, step.Name, err)
			}
			statement = ast.RenderQuery(q)
			errs = validate.Query(acc, acc.Schema(), aggregate.Default, q)
		case step.Insert != nil:
			acc, err := lookup(reg, schemaTable(step, step.Insert.Table), step.Insert.Version)
			if err != nil {
				return nil, fmt.Errorf("harness: steps[%d] %s: %w", i, step.Name, err)
			}
			ins, err := buildInsert(step.Insert)
			if err != nil {
				return nil, fmt.Errorf("harness: steps[%d] %s: %w", i, step.Name, err)
			}
			statement = ast.RenderInsert(ins)
			errs = validate.Insert(acc, acc.Schema(), ins)
		}

		stepResult := StepResult{
			Name:      step.Name,
			Statement: statement,
			Want:      step.Expect,
		}
		for _, e := range errs {
			stepResult.Got = append(stepResult.Got, string(e.Code))
			stepResult.Messages = append(stepResult.Messages, e.Error())
		}
		stepResult.Passed = codesEqual(stepResult.Want, stepResult.Got)
		if !stepResult.Passed {
			result.Failures++
		}
		result.Steps = append(result.Steps, stepResult)
	}
	return result, nil
}

// schemaTable picks the table whose schema validates the step: the
// step's schema override when present, the statement's table otherwise.
func schemaTable(step Step, statementTable string) string {
	if step.Schema != "" {
		return step.Schema
	}
	return statementTable
}

// lookup resolves (table, version) in the registry. Scenarios may omit
// the version; it defaults to 1.
func lookup(reg *ddl.Registry, table string, version int) (*ddl.CompiledAccessor, error) {
	if version == 0 {
		version = 1
	}
	acc, ok := reg.Lookup(table, version)
	if !ok {
		return nil, fmt.Errorf("table %q version %d is not registered", table, version)
	}
	return acc, nil
}

func codesEqual(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}
