package util

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULID(t *testing.T) {
	t.Run("ParsesAsULID", func(t *testing.T) {
		id := NewULID()
		_, err := ulid.Parse(id)
		require.NoError(t, err)
		assert.Len(t, id, 26)
	})

	t.Run("MonotonicWithinProcess", func(t *testing.T) {
		seen := make(map[string]bool)
		prev := ""
		for i := 0; i < 1000; i++ {
			id := NewULID()
			assert.False(t, seen[id], "duplicate ULID %s", id)
			assert.Greater(t, id, prev)
			seen[id] = true
			prev = id
		}
	})
}
