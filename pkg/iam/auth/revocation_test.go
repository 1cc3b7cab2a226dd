package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/resumescan/internal/containertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRevocationStore(t *testing.T) {
	client := containertest.Redis(t)
	store := NewRedisRevocationStore(client)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, "auth:revoked:jti-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	t.Run("entry expires with the token", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-2", time.Now().Add(1500*time.Millisecond)))
		revoked, err := store.IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		assert.True(t, revoked)

		assert.Eventually(t, func() bool {
			revoked, err := store.IsRevoked(ctx, "jti-2")
			return err == nil && !revoked
		}, 5*time.Second, 100*time.Millisecond)
	})

	t.Run("already expired token is not stored", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-3", time.Now().Add(-time.Minute)))
		revoked, err := store.IsRevoked(ctx, "jti-3")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
