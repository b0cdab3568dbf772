package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/etsangsplk/riak-ql/internal/catalog"
	"github.com/etsangsplk/riak-ql/internal/gologger"
)

// TablesOptions holds flags for the tables command.
type TablesOptions struct {
	*RootOptions
	Catalog string // catalog database path
}

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TablesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "tables",
		Short:         "List schemas registered in the catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "riakql.db", "catalog database path")

	return cmd
}

func runTables(opts *TablesOptions, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	cat, err := catalog.Open(opts.Catalog, gologger.Nop())
	if err != nil {
		_ = formatter.Errors([]Diag{{Code: ErrCodeNotFound, Message: err.Error()}})
		return NewExitError(ExitCommandError, err.Error())
	}
	defer cat.Close()

	entries, err := cat.List(cmd.Context())
	if err != nil {
		_ = formatter.Errors([]Diag{{Code: ErrCodeGeneric, Message: err.Error()}})
		return NewExitError(ExitCommandError, err.Error())
	}

	if formatter.Format == "json" {
		listed := make([]RegisteredTable, 0, len(entries))
		for _, e := range entries {
			listed = append(listed, RegisteredTable{
				ID:           e.ID,
				Table:        e.Table,
				Version:      e.Version,
				AccessorName: e.AccessorName,
				Fingerprint:  e.Fingerprint,
			})
		}
		return formatter.Success(listed)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No tables registered")
		return nil
	}
	fmt.Fprintf(formatter.Writer, "%d table(s) registered\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "  %s v%d\n", e.Table, e.Version)
		fmt.Fprintf(formatter.Writer, "    accessor:    %s\n", e.AccessorName)
		fmt.Fprintf(formatter.Writer, "    fingerprint: %s\n", e.Fingerprint)
		fmt.Fprintf(formatter.Writer, "    registered:  %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
