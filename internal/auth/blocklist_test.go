package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlocklist(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	b := NewMemoryBlocklist()
	b.now = func() time.Time { return now }

	revoked, err := b.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.Revoke(ctx, "abc", now.Add(time.Minute)))
	revoked, err = b.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	// already-expired tokens are not worth remembering
	require.NoError(t, b.Revoke(ctx, "old", now.Add(-time.Minute)))
	revoked, err = b.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = b.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.Revoke(ctx, "new", now.Add(time.Minute)))
	assert.Len(t, b.revoked, 1)
}
