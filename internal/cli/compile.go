package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/etsangsplk/riak-ql/internal/ddl"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledTable is the per-table compile result.
type CompiledTable struct {
	Table        string `json:"table"`
	Version      int    `json:"version"`
	AccessorName string `json:"accessor_name"`
	Fingerprint  string `json:"fingerprint"`
	FieldCount   int    `json:"field_count"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <ddl-dir>",
		Short: "Compile CUE table definitions into row accessors",
		Long: `Compile CUE table definitions, derive each table's accessor name
and canonical fingerprint, and report the results.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, ddlDir string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	loadResult, loadErrors := LoadDefinitions(ddlDir, LoaderOptions{})
	if len(loadErrors) > 0 {
		_ = formatter.Errors(loadErrorDiags(loadErrors))
		return NewExitError(ExitCommandError, fmt.Sprintf("loading DDL failed with %d error(s)", len(loadErrors)))
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, ddlDir)

	tables, err := compileTables(formatter, loadResult.Schemas)
	if err != nil {
		return err
	}

	if opts.Output != "" {
		if err := writeTablesToFile(tables, opts.Output); err != nil {
			_ = formatter.Errors([]Diag{{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("writing output file: %v", err)}})
			return NewExitError(ExitCommandError, fmt.Sprintf("writing output file: %v", err))
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(tables)
	}
	fmt.Fprintf(formatter.Writer, "Compiled %d table(s)\n\n", len(tables))
	for _, t := range tables {
		fmt.Fprintf(formatter.Writer, "  %s v%d: %d field(s)\n", t.Table, t.Version, t.FieldCount)
		fmt.Fprintf(formatter.Writer, "    accessor:    %s\n", t.AccessorName)
		fmt.Fprintf(formatter.Writer, "    fingerprint: %s\n", t.Fingerprint)
	}
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote compile results to %s\n", opts.Output)
	}
	return nil
}

// compileTables compiles each schema and derives its identity.
func compileTables(formatter *OutputFormatter, schemas []*ddl.Schema) ([]CompiledTable, error) {
	tables := make([]CompiledTable, 0, len(schemas))
	for _, schema := range schemas {
		formatter.VerboseLog("Compiling table: %s v%d", schema.Table, schema.Version)
		ddl.Compile(schema)

		fingerprint, err := schema.Fingerprint()
		if err != nil {
			_ = formatter.Errors([]Diag{{Code: ErrCodeGeneric, Message: fmt.Sprintf("fingerprint %q: %v", schema.Table, err)}})
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("fingerprint %q: %v", schema.Table, err))
		}
		tables = append(tables, CompiledTable{
			Table:        schema.Table,
			Version:      schema.Version,
			AccessorName: ddl.AccessorName(schema.Table, schema.Version),
			Fingerprint:  fingerprint,
			FieldCount:   len(schema.Fields),
		})
	}
	return tables, nil
}

func writeTablesToFile(tables []CompiledTable, filename string) error {
	data, err := json.MarshalIndent(tables, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
