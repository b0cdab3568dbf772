package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/etsangsplk/riak-ql/internal/ddl"
)

// Report renders a result as a deterministic plain-text report. The
// same scenario against the same schemas always produces the same
// bytes, which is what the golden files compare.
func Report(result *Result) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", result.Scenario)
	for _, step := range result.Steps {
		verdict := "pass"
		if !step.Passed {
			verdict = "fail"
		}
		fmt.Fprintf(&buf, "\nstep: %s [%s]\n", step.Name, verdict)
		fmt.Fprintf(&buf, "  statement: %s\n", step.Statement)
		if len(step.Messages) == 0 {
			fmt.Fprintf(&buf, "  valid\n")
			continue
		}
		for i, msg := range step.Messages {
			fmt.Fprintf(&buf, "  %s: %s\n", step.Got[i], msg)
		}
	}
	return buf.Bytes()
}

// RunWithGolden executes a scenario and compares the rendered report
// against testdata/golden/{scenario.Name}.golden. Regenerate with
// go test -update.
func RunWithGolden(t *testing.T, reg *ddl.Registry, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(reg, scenario)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Report(result))
	return result
}
