package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldTypeRoundTrip(t *testing.T) {
	for _, ft := range []FieldType{Varchar, SInt64, Double, Timestamp, Boolean} {
		parsed, err := ParseFieldType(ft.String())
		require.NoError(t, err)
		assert.Equal(t, ft, parsed)
	}
}

func TestParseFieldTypeUnknown(t *testing.T) {
	_, err := ParseFieldType("blob")
	assert.Error(t, err)
}

func TestKeyComponentSealed(t *testing.T) {
	// Compile-time checks that the variants satisfy their interfaces.
	var _ KeyComponent = ParamRef{}
	var _ KeyComponent = HashFn{}
	var _ HashArg = ParamRef{}
	var _ HashArg = Constant{}
}

func TestSchemaFieldByName(t *testing.T) {
	s := &Schema{
		Table: "weather",
		Fields: []Field{
			{Name: "region", Position: 1, Type: Varchar},
			{Name: "time", Position: 2, Type: Timestamp},
		},
	}

	f, ok := s.FieldByName("time")
	require.True(t, ok)
	assert.Equal(t, Timestamp, f.Type)
	assert.Equal(t, 2, f.Position)

	_, ok = s.FieldByName("nope")
	assert.False(t, ok)
}

func TestParamHelper(t *testing.T) {
	p := Param("region")
	assert.Equal(t, []string{"region"}, p.Path)
	assert.Equal(t, Ascending, p.Order)
}

func TestOrderingString(t *testing.T) {
	assert.Equal(t, "asc", Ascending.String())
	assert.Equal(t, "desc", Descending.String())
}
