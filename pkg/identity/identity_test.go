package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_Unique(t *testing.T) {
	g := NewUUIDGenerator()
	seen := make(map[string]struct{})

	for i := 0; i < 1000; i++ {
		id, err := g.NewID()
		require.NoError(t, err)
		secret, err := g.NewSecret()
		require.NoError(t, err)

		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), parsed.Version())

		assert.NotEqual(t, id, secret.String())
		for _, v := range []string{id, secret.String()} {
			_, dup := seen[v]
			require.False(t, dup, "duplicate value %s", v)
			seen[v] = struct{}{}
		}
	}
}

func TestSecret_Equal(t *testing.T) {
	assert.True(t, Secret("abc").Equal("abc"))
	assert.False(t, Secret("abc").Equal("abd"))
	assert.False(t, Secret("abc").Equal("abcd"))
	assert.False(t, Secret("abc").Equal(""))
	assert.True(t, Secret("").Equal(""))
}
