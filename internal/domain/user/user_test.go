package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		u, err := NewUser("alice", "2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae", "+15550100")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, u.ID)
		assert.Equal(t, "alice", u.Username)
		assert.Equal(t, "+15550100", u.Phone)
		assert.False(t, u.CreatedAt.IsZero())
	})

	t.Run("EmptyUsername", func(t *testing.T) {
		_, err := NewUser("", "hash", "+15550100")
		assert.ErrorIs(t, err, ErrEmptyUsername)
	})

	t.Run("EmptyPasswordHash", func(t *testing.T) {
		_, err := NewUser("alice", "", "+15550100")
		assert.ErrorIs(t, err, ErrEmptyPasswordHash)
	})

	t.Run("EmptyPhone", func(t *testing.T) {
		_, err := NewUser("alice", "hash", "")
		assert.ErrorIs(t, err, ErrEmptyPhone)
	})
}
