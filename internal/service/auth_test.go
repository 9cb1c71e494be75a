package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friendly-foods/backend/internal/store"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("register issues a valid token", func(t *testing.T) {
		auth := NewAuthService(store.NewMemoryStore(), "test-secret")

		token, user, err := auth.Register(ctx, " alice ", "Alice@Example.com ", "password123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEqual(t, "password123", user.PasswordHash)

		claims, err := auth.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		auth := NewAuthService(store.NewMemoryStore(), "test-secret")

		_, _, err := auth.Register(ctx, "alice", "alice@example.com", "password123")
		require.NoError(t, err)

		_, _, err = auth.Register(ctx, "other", "ALICE@example.com", "password456")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("login verifies credentials", func(t *testing.T) {
		auth := NewAuthService(store.NewMemoryStore(), "test-secret")

		_, registered, err := auth.Register(ctx, "alice", "alice@example.com", "password123")
		require.NoError(t, err)

		token, user, err := auth.Login(ctx, "alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token)

		_, _, err = auth.Login(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, _, err = auth.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		auth := NewAuthService(store.NewMemoryStore(), "test-secret")
		other := NewAuthService(store.NewMemoryStore(), "other-secret")

		token, _, err := other.Register(ctx, "alice", "alice@example.com", "password123")
		require.NoError(t, err)

		_, err = auth.ValidateToken(token)
		assert.Error(t, err)
	})
}
