package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etsangsplk/riak-ql/internal/ddl"
)

const weatherDDL = `
package ddl

table: weather: {
	version: 1
	fields: [
		{name: "region", type: "varchar"},
		{name: "time", type: "timestamp"},
		{name: "temp", type: "double", optional: true},
	]
	partition_key: [
		{param: "region"},
		{param: "time"},
	]
	local_key: [
		{param: "region"},
		{param: "time", order: "desc"},
	]
}
`

const quantizedDDL = `
package ddl

table: readings: {
	version: 1
	fields: [
		{name: "sensor", type: "varchar"},
		{name: "time", type: "timestamp"},
	]
	partition_key: [
		{fn: "quantum", args: [{param: "time"}, {const: 15}, {const: "m"}], result_type: "timestamp"},
		{param: "sensor"},
	]
	local_key: [
		{param: "sensor"},
		{param: "time"},
	]
}
`

func writeDDL(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tables.cue"), []byte(content), 0o644))
	return dir
}

func TestLoadDefinitions(t *testing.T) {
	dir := writeDDL(t, weatherDDL)

	result, errs := LoadDefinitions(dir, LoaderOptions{})
	require.Empty(t, errs)
	require.Len(t, result.Schemas, 1)
	assert.Equal(t, 1, result.FileCount)

	schema := result.Schemas[0]
	assert.Equal(t, "weather", schema.Table)
	assert.Equal(t, 1, schema.Version)
	require.Len(t, schema.Fields, 3)
	assert.Equal(t, ddl.Field{Name: "region", Position: 1, Type: ddl.Varchar}, schema.Fields[0])
	assert.Equal(t, ddl.Field{Name: "time", Position: 2, Type: ddl.Timestamp}, schema.Fields[1])
	assert.True(t, schema.Fields[2].Optional)

	require.Len(t, schema.LocalKey, 2)
	last, ok := schema.LocalKey[1].(ddl.ParamRef)
	require.True(t, ok)
	assert.Equal(t, ddl.Descending, last.Order)
}

func TestLoadDefinitionsHashFn(t *testing.T) {
	dir := writeDDL(t, quantizedDDL)

	var gotArgs []any
	fn := func(args ...any) any {
		gotArgs = args
		return int64(0)
	}

	result, errs := LoadDefinitions(dir, LoaderOptions{HashFuncs: map[string]ddl.HashFunc{"quantum": fn}})
	require.Empty(t, errs)
	require.Len(t, result.Schemas, 1)

	hashFn, ok := result.Schemas[0].PartitionKey[0].(ddl.HashFn)
	require.True(t, ok)
	assert.Equal(t, "quantum", hashFn.Name)
	assert.Equal(t, ddl.Timestamp, hashFn.ResultType)
	require.Len(t, hashFn.Args, 3)
	assert.Equal(t, ddl.Constant{Value: int64(15)}, hashFn.Args[1])
	assert.Equal(t, ddl.Constant{Value: "m"}, hashFn.Args[2])
	assert.NotNil(t, hashFn.Fn)
	_ = gotArgs
}

func TestLoadDefinitionsUnresolvedHashFn(t *testing.T) {
	dir := writeDDL(t, quantizedDDL)

	_, errs := LoadDefinitions(dir, LoaderOptions{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), ErrCodeUnknownHashFn)
	assert.Contains(t, errs[0].Error(), "quantum")
}

func TestLoadDefinitionsUnknownFieldType(t *testing.T) {
	dir := writeDDL(t, `
package ddl

table: bad: {
	version: 1
	fields: [{name: "x", type: "decimal"}]
	partition_key: [{param: "x"}]
	local_key: [{param: "x"}]
}
`)

	_, errs := LoadDefinitions(dir, LoaderOptions{})
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), ErrCodeInvalidType)
}

func TestLoadDefinitionsUnknownKeyRef(t *testing.T) {
	dir := writeDDL(t, `
package ddl

table: bad: {
	version: 1
	fields: [{name: "x", type: "varchar"}]
	partition_key: [{param: "y"}]
	local_key: [{param: "x"}]
}
`)

	_, errs := LoadDefinitions(dir, LoaderOptions{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), ErrCodeUnknownKeyRef)
	assert.Contains(t, errs[0].Error(), `"y"`)
}

func TestLoadDefinitionsDuplicateField(t *testing.T) {
	dir := writeDDL(t, `
package ddl

table: bad: {
	version: 1
	fields: [
		{name: "x", type: "varchar"},
		{name: "x", type: "sint64"},
	]
	partition_key: [{param: "x"}]
	local_key: [{param: "x"}]
}
`)

	_, errs := LoadDefinitions(dir, LoaderOptions{})
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), ErrCodeDuplicateField)
}

func TestLoadDefinitionsMissingVersion(t *testing.T) {
	dir := writeDDL(t, `
package ddl

table: bad: {
	fields: [{name: "x", type: "varchar"}]
	partition_key: [{param: "x"}]
	local_key: [{param: "x"}]
}
`)

	_, errs := LoadDefinitions(dir, LoaderOptions{})
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), ErrCodeInvalidTable)
}

func TestLoadDefinitionsBadTableErrorsDoNotHideOthers(t *testing.T) {
	dir := writeDDL(t, weatherDDL+`
table: bad: {
	version: 1
	fields: [{name: "x", type: "decimal"}]
	partition_key: [{param: "x"}]
	local_key: [{param: "x"}]
}
`)

	result, errs := LoadDefinitions(dir, LoaderOptions{})
	require.Len(t, errs, 1)
	require.Len(t, result.Schemas, 1)
	assert.Equal(t, "weather", result.Schemas[0].Table)
}

func TestLoadDefinitionsMissingDirectory(t *testing.T) {
	_, errs := LoadDefinitions("/nonexistent/directory/path", LoaderOptions{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), ErrCodeNotFound)
}

func TestLoadDefinitionsEmptyDirectory(t *testing.T) {
	_, errs := LoadDefinitions(t.TempDir(), LoaderOptions{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), ErrCodeNoFiles)
}
