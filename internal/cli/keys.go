package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/etsangsplk/riak-ql/internal/ddl"
	"github.com/etsangsplk/riak-ql/internal/keys"
)

// KeysOptions holds flags for the keys command.
type KeysOptions struct {
	*RootOptions
	Table   string
	Version int
	Values  []string // k=v pairs
}

// KeyPair is one derived key element in command output.
type KeyPair struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// DerivedKeys is the keys command result.
type DerivedKeys struct {
	Table        string    `json:"table"`
	Version      int       `json:"version"`
	PartitionKey []KeyPair `json:"partition_key"`
	LocalKey     []KeyPair `json:"local_key"`
}

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KeysOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "keys <ddl-dir>",
		Short: "Derive partition and local keys from a value mapping",
		Long: `Derive the partition and local key tuples a row would be stored
under, given field values as --values name=value pairs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "table name (required)")
	cmd.Flags().IntVar(&opts.Version, "version", 1, "table version")
	cmd.Flags().StringSliceVar(&opts.Values, "values", nil, "field values as name=value pairs")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runKeys(opts *KeysOptions, ddlDir string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	loadResult, loadErrors := LoadDefinitions(ddlDir, LoaderOptions{})
	if len(loadErrors) > 0 {
		_ = formatter.Errors(loadErrorDiags(loadErrors))
		return NewExitError(ExitCommandError, fmt.Sprintf("loading DDL failed with %d error(s)", len(loadErrors)))
	}

	schema := findSchema(loadResult.Schemas, opts.Table, opts.Version)
	if schema == nil {
		msg := fmt.Sprintf("table %q version %d not found in %s", opts.Table, opts.Version, ddlDir)
		_ = formatter.Errors([]Diag{{Code: ErrCodeNotFound, Message: msg}})
		return NewExitError(ExitCommandError, msg)
	}
	acc := ddl.Compile(schema)

	values, err := parseValues(acc, opts.Values)
	if err != nil {
		_ = formatter.Errors([]Diag{{Code: ErrCodeGeneric, Message: err.Error()}})
		return NewExitError(ExitCommandError, err.Error())
	}

	partition, err := keys.FromValues(acc, schema.PartitionKey, values)
	if err != nil {
		_ = formatter.Errors([]Diag{{Code: ErrCodeGeneric, Message: err.Error()}})
		return NewExitError(ExitFailure, err.Error())
	}
	local, err := keys.FromValues(acc, schema.LocalKey, values)
	if err != nil {
		_ = formatter.Errors([]Diag{{Code: ErrCodeGeneric, Message: err.Error()}})
		return NewExitError(ExitFailure, err.Error())
	}

	result := DerivedKeys{
		Table:        schema.Table,
		Version:      schema.Version,
		PartitionKey: toKeyPairs(partition),
		LocalKey:     toKeyPairs(local),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "Table %s v%d\n", result.Table, result.Version)
	fmt.Fprintf(formatter.Writer, "  partition key: %s\n", renderKey(result.PartitionKey))
	fmt.Fprintf(formatter.Writer, "  local key:     %s\n", renderKey(result.LocalKey))
	return nil
}

func findSchema(schemas []*ddl.Schema, table string, version int) *ddl.Schema {
	for _, s := range schemas {
		if s.Table == table && s.Version == version {
			return s
		}
	}
	return nil
}

// parseValues converts name=value flags into typed field values using
// the schema's declared field types.
func parseValues(acc ddl.Accessor, pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("malformed value %q: expected name=value", pair)
		}
		path := []string{name}
		if !acc.IsFieldValid(path) {
			return nil, fmt.Errorf("unknown field %q", name)
		}

		switch acc.FieldType(path) {
		case ddl.Varchar:
			values[name] = []byte(raw)
		case ddl.SInt64, ddl.Timestamp:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("field %q: %v", name, err)
			}
			values[name] = n
		case ddl.Double:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("field %q: %v", name, err)
			}
			values[name] = f
		case ddl.Boolean:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("field %q: %v", name, err)
			}
			values[name] = b
		}
	}
	return values, nil
}

func toKeyPairs(pairs []keys.Pair) []KeyPair {
	out := make([]KeyPair, len(pairs))
	for i, p := range pairs {
		value := p.Value
		if b, ok := value.([]byte); ok {
			value = string(b)
		}
		out[i] = KeyPair{Type: p.Type.String(), Value: value}
	}
	return out
}

func renderKey(pairs []KeyPair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("%v (%s)", p.Value, p.Type)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
