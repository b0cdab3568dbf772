package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etsangsplk/riak-ql/internal/ddl"
)

func keySchema() (*ddl.Schema, ddl.Accessor) {
	s := &ddl.Schema{
		Table:   "keyed",
		Version: 1,
		Fields: []ddl.Field{
			{Name: "buckle", Position: 1, Type: ddl.Varchar},
			{Name: "sherk", Position: 2, Type: ddl.Varchar},
			{Name: "yando", Position: 3, Type: ddl.Varchar},
		},
		PartitionKey: ddl.KeySpec{ddl.Param("yando"), ddl.Param("buckle")},
		LocalKey:     ddl.KeySpec{ddl.Param("buckle")},
	}
	return s, ddl.Compile(s)
}

func TestPartitionKeySpecOrderNotDeclarationOrder(t *testing.T) {
	schema, acc := keySchema()
	row := ddl.Row{"one", "two", "three"}

	pairs := PartitionKey(schema, acc, row)
	require.Len(t, pairs, 2)
	assert.Equal(t, Pair{Type: ddl.Varchar, Value: "three"}, pairs[0])
	assert.Equal(t, Pair{Type: ddl.Varchar, Value: "one"}, pairs[1])
}

func TestLocalKey(t *testing.T) {
	schema, acc := keySchema()
	row := ddl.Row{"one", "two", "three"}

	pairs := LocalKey(schema, acc, row)
	require.Len(t, pairs, 1)
	assert.Equal(t, Pair{Type: ddl.Varchar, Value: "one"}, pairs[0])
}

func TestHashFnComponent(t *testing.T) {
	var gotArgs []any
	quantize := func(args ...any) any {
		gotArgs = args
		return int64(1400000000)
	}

	s := &ddl.Schema{
		Table:   "timeseries",
		Version: 1,
		Fields: []ddl.Field{
			{Name: "family", Position: 1, Type: ddl.Varchar},
			{Name: "time", Position: 2, Type: ddl.Timestamp},
		},
		PartitionKey: ddl.KeySpec{
			ddl.Param("family"),
			ddl.HashFn{
				Name:       "quantum",
				Fn:         quantize,
				Args:       []ddl.HashArg{ddl.Param("time"), ddl.Constant{Value: int64(15)}, ddl.Constant{Value: "m"}},
				ResultType: ddl.Timestamp,
			},
		},
		LocalKey: ddl.KeySpec{ddl.Param("family"), ddl.Param("time")},
	}
	acc := ddl.Compile(s)
	row := ddl.Row{"f1", int64(1400000900)}

	pairs := PartitionKey(s, acc, row)
	require.Len(t, pairs, 2)

	// The function receives the resolved field value and the constants,
	// in argument order.
	assert.Equal(t, []any{int64(1400000900), int64(15), "m"}, gotArgs)
	assert.Equal(t, Pair{Type: ddl.Timestamp, Value: int64(1400000000)}, pairs[1])
}

func TestHashFnResultTypeIsAuthoritative(t *testing.T) {
	// The function returns a string, but the declared result type tags
	// the pair anyway - the engine never re-derives or validates it.
	s := &ddl.Schema{
		Table:   "t",
		Version: 1,
		Fields: []ddl.Field{
			{Name: "a", Position: 1, Type: ddl.Varchar},
		},
		PartitionKey: ddl.KeySpec{
			ddl.HashFn{
				Name:       "oddball",
				Fn:         func(args ...any) any { return "not a timestamp" },
				Args:       []ddl.HashArg{ddl.Param("a")},
				ResultType: ddl.Timestamp,
			},
		},
		LocalKey: ddl.KeySpec{ddl.Param("a")},
	}
	acc := ddl.Compile(s)

	pairs := PartitionKey(s, acc, ddl.Row{"x"})
	require.Len(t, pairs, 1)
	assert.Equal(t, ddl.Timestamp, pairs[0].Type)
	assert.Equal(t, "not a timestamp", pairs[0].Value)
}

func TestHashFnArgsSkipOrderingTransform(t *testing.T) {
	var got any
	s := &ddl.Schema{
		Table:   "t",
		Version: 1,
		Fields: []ddl.Field{
			{Name: "n", Position: 1, Type: ddl.SInt64},
		},
		PartitionKey: ddl.KeySpec{
			ddl.HashFn{
				Name: "probe",
				Fn: func(args ...any) any {
					got = args[0]
					return args[0]
				},
				// Descending on a nested ref: function args receive the
				// raw value, no transform.
				Args:       []ddl.HashArg{ddl.ParamRef{Path: []string{"n"}, Order: ddl.Descending}},
				ResultType: ddl.SInt64,
			},
		},
		LocalKey: ddl.KeySpec{ddl.Param("n")},
	}
	acc := ddl.Compile(s)

	PartitionKey(s, acc, ddl.Row{int64(5)})
	assert.Equal(t, int64(5), got)
}

func TestOrderingTransform(t *testing.T) {
	tests := []struct {
		name  string
		value any
		order ddl.Ordering
		want  any
	}{
		{"ascending identity int", int64(5), ddl.Ascending, int64(5)},
		{"ascending identity bytes", []byte{0x00}, ddl.Ascending, []byte{0x00}},
		{"descending negates int64", int64(5), ddl.Descending, int64(-5)},
		{"descending negates int", 7, ddl.Descending, -7},
		{"descending complements bytes", []byte{0x00}, ddl.Descending, []byte{0xFF}},
		{"descending complements each byte", []byte{0x01, 0xF0}, ddl.Descending, []byte{0xFE, 0x0F}},
		{"descending no reversal for float", 1.5, ddl.Descending, 1.5},
		{"descending no reversal for bool", true, ddl.Descending, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyOrdering(tt.value, tt.order))
		})
	}
}

func TestOrderingTransformPreservesLength(t *testing.T) {
	in := []byte("abcdef")
	out := applyOrdering(in, ddl.Descending).([]byte)
	assert.Len(t, out, len(in))
	// Input untouched.
	assert.Equal(t, []byte("abcdef"), in)
}

func TestDescendingComponentInKeySpec(t *testing.T) {
	// No producer constructs Descending today, but the path is
	// implemented and must transform top-level components.
	s := &ddl.Schema{
		Table:   "t",
		Version: 1,
		Fields: []ddl.Field{
			{Name: "n", Position: 1, Type: ddl.SInt64},
		},
		PartitionKey: ddl.KeySpec{ddl.ParamRef{Path: []string{"n"}, Order: ddl.Descending}},
		LocalKey:     ddl.KeySpec{ddl.Param("n")},
	}
	acc := ddl.Compile(s)

	pairs := PartitionKey(s, acc, ddl.Row{int64(42)})
	require.Len(t, pairs, 1)
	assert.Equal(t, int64(-42), pairs[0].Value)
}

func TestFromValues(t *testing.T) {
	schema, acc := keySchema()
	values := map[string]any{"yando": "three", "buckle": "one"}

	pairs, err := FromValues(acc, schema.PartitionKey, values)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "three", pairs[0].Value)
	assert.Equal(t, "one", pairs[1].Value)
}

func TestFromValuesMissingValue(t *testing.T) {
	schema, acc := keySchema()

	_, err := FromValues(acc, schema.PartitionKey, map[string]any{"yando": "three"})
	require.Error(t, err)

	var missing *MissingValueError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "buckle", missing.Name)
	assert.Equal(t, `missing value for key field "buckle"`, err.Error())
}

func TestFromValuesFailsFastOnFirstMissing(t *testing.T) {
	schema, acc := keySchema()

	// Both components unresolvable: the error names the first one in
	// key-spec order.
	_, err := FromValues(acc, schema.PartitionKey, map[string]any{})
	var missing *MissingValueError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "yando", missing.Name)
}

func TestFromValuesMissingHashFnArg(t *testing.T) {
	s := &ddl.Schema{
		Table:   "t",
		Version: 1,
		Fields: []ddl.Field{
			{Name: "time", Position: 1, Type: ddl.Timestamp},
		},
		PartitionKey: ddl.KeySpec{
			ddl.HashFn{
				Name:       "quantum",
				Fn:         func(args ...any) any { return args[0] },
				Args:       []ddl.HashArg{ddl.Param("time")},
				ResultType: ddl.Timestamp,
			},
		},
		LocalKey: ddl.KeySpec{ddl.Param("time")},
	}
	acc := ddl.Compile(s)

	_, err := FromValues(acc, s.PartitionKey, map[string]any{})
	var missing *MissingValueError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "time", missing.Name)
}

func TestDeriveIdempotent(t *testing.T) {
	schema, acc := keySchema()
	row := ddl.Row{"one", "two", "three"}

	assert.Equal(t, PartitionKey(schema, acc, row), PartitionKey(schema, acc, row))
	assert.Equal(t, LocalKey(schema, acc, row), LocalKey(schema, acc, row))
}
