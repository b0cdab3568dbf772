package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryArity(t *testing.T) {
	for _, fn := range []string{"COUNT", "SUM", "AVG", "MEAN", "MIN", "MAX", "STDDEV", "STDDEV_SAMP", "STDDEV_POP"} {
		arity, ok := Default.Arity(fn)
		require.True(t, ok, fn)
		assert.Equal(t, 1, arity, fn)
	}
}

func TestDefaultRegistryCaseInsensitive(t *testing.T) {
	arity, ok := Default.Arity("count")
	require.True(t, ok)
	assert.Equal(t, 1, arity)
}

func TestDefaultRegistryUnknown(t *testing.T) {
	_, ok := Default.Arity("MEDIAN")
	assert.False(t, ok)
}
