package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/etsangsplk/riak-ql/internal/ddl"
	"github.com/etsangsplk/riak-ql/internal/harness"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
}

// CheckStep is one scenario step in command output.
type CheckStep struct {
	Name      string   `json:"name"`
	Statement string   `json:"statement"`
	Passed    bool     `json:"passed"`
	Want      []string `json:"want"`
	Got       []string `json:"got,omitempty"`
	Messages  []string `json:"messages,omitempty"`
}

// CheckResult is the check command result.
type CheckResult struct {
	Scenario string      `json:"scenario"`
	Passed   bool        `json:"passed"`
	Failures int         `json:"failures"`
	Steps    []CheckStep `json:"steps"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <ddl-dir> <scenario.yaml>",
		Short: "Run a validation scenario against table definitions",
		Long: `Load table definitions, then run every statement in the scenario
file through validation and compare the produced error codes against
the scenario's expectations.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runCheck(opts *CheckOptions, ddlDir, scenarioPath string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	loadResult, loadErrors := LoadDefinitions(ddlDir, LoaderOptions{})
	if len(loadErrors) > 0 {
		_ = formatter.Errors(loadErrorDiags(loadErrors))
		return NewExitError(ExitCommandError, fmt.Sprintf("loading DDL failed with %d error(s)", len(loadErrors)))
	}

	reg := ddl.NewRegistry()
	for _, schema := range loadResult.Schemas {
		if _, err := reg.Register(schema); err != nil {
			_ = formatter.Errors([]Diag{{Code: ErrCodeGeneric, Message: err.Error()}})
			return NewExitError(ExitCommandError, err.Error())
		}
	}

	scenario, err := harness.LoadScenario(scenarioPath)
	if err != nil {
		_ = formatter.Errors([]Diag{{Code: ErrCodeNotFound, Message: err.Error()}})
		return NewExitError(ExitCommandError, err.Error())
	}
	formatter.VerboseLog("Running scenario %s: %d step(s)", scenario.Name, len(scenario.Steps))

	result, err := harness.Run(reg, scenario)
	if err != nil {
		_ = formatter.Errors([]Diag{{Code: ErrCodeGeneric, Message: err.Error()}})
		return NewExitError(ExitCommandError, err.Error())
	}

	checkResult := CheckResult{
		Scenario: result.Scenario,
		Passed:   result.Passed(),
		Failures: result.Failures,
	}
	for _, step := range result.Steps {
		checkResult.Steps = append(checkResult.Steps, CheckStep{
			Name:      step.Name,
			Statement: step.Statement,
			Passed:    step.Passed,
			Want:      step.Want,
			Got:       step.Got,
			Messages:  step.Messages,
		})
	}

	if formatter.Format == "json" {
		if err := formatter.Success(checkResult); err != nil {
			return err
		}
	} else {
		fmt.Fprint(formatter.Writer, string(harness.Report(result)))
	}

	if !result.Passed() {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s: %d step(s) failed", result.Scenario, result.Failures))
	}
	return nil
}
