package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(now *time.Time) *MemoryStore {
	s := NewMemoryStore()
	s.now = func() time.Time { return *now }
	return s
}

func TestMemoryStoreRevocation(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(&now)

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Hour))
	revoked, _ = s.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)

	now = now.Add(time.Hour)
	revoked, _ = s.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked, "revocation expires with the token")

	require.NoError(t, s.Revoke(ctx, "expired", 0))
	revoked, _ = s.IsRevoked(ctx, "expired")
	assert.False(t, revoked)
}

func TestMemoryStoreCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(&now)

	type item struct {
		Key string `json:"key"`
	}

	var got []item
	assert.ErrorIs(t, s.Get(ctx, "side_games", &got), ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "side_games", []item{{Key: "01_Low_Net"}}, 5*time.Minute))
	require.NoError(t, s.Get(ctx, "side_games", &got))
	assert.Equal(t, []item{{Key: "01_Low_Net"}}, got)

	now = now.Add(5 * time.Minute)
	assert.ErrorIs(t, s.Get(ctx, "side_games", &got), ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "side_games", []item{}, 0))
	require.NoError(t, s.Delete(ctx, "side_games"))
	assert.ErrorIs(t, s.Get(ctx, "side_games", &got), ErrCacheMiss)
}
