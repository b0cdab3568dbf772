package validate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/etsangsplk/riak-ql/internal/ast"
	"github.com/etsangsplk/riak-ql/internal/ddl"
)

func TestErrorImplementsError(t *testing.T) {
	var err error = NewBucketTypeMismatch("a", "b")
	assert.NotEmpty(t, err.Error())
}

// TestErrorMessagesGolden snapshots one rendered message per error kind.
// Regenerate with: go test ./internal/validate -update
func TestErrorMessagesGolden(t *testing.T) {
	all := []Error{
		NewBucketTypeMismatch("sensors", "turbines"),
		NewUnexpectedSelectField("doge"),
		NewUnexpectedWhereField("monfamily"),
		NewUnexpectedInsertField("COUNT(time)"),
		NewIncompatibleType("time", ddl.Timestamp, ast.FloatLiteral),
		NewIncompatibleOperator("name", ddl.Varchar, ast.OpGt),
		NewInvalidFieldOperation("temperature", "geohash"),
		NewSubexpressionsNotSupported("time", ast.OpGt),
		NewUnknownColumnType("-temperature"),
		NewFnCalledWithWrongArity("COUNT", 3),
		NewSelectionsCantBeBlank(),
		NewInsertionsCantBeBlank(),
		NewIncompatibleInsertType(),
	}

	var b strings.Builder
	for _, e := range all {
		fmt.Fprintf(&b, "%s: %s\n", e.Code, e.Error())
	}

	g := goldie.New(t)
	g.Assert(t, "error_messages", []byte(b.String()))
}

func TestFnArityErrorFields(t *testing.T) {
	e := NewFnCalledWithWrongArity("SUM", 4)
	assert.Equal(t, "SUM", e.Fn)
	assert.Equal(t, 1, e.WantArity)
	assert.Equal(t, 4, e.GotArity)
}
