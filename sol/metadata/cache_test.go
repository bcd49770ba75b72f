package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/outcry-labs/go-outcry/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, types.CacheConfig{})

	_, ok := c.Get(ctx, "mint")
	assert.False(t, ok)

	want := &types.ResolvedMetadata{Mint: "mint", Name: "Outcry #1"}
	require.NoError(t, c.Set(ctx, "mint", want))

	got, ok := c.Get(ctx, "mint")
	require.True(t, ok)
	assert.Same(t, want, got)
}

func TestCache_InstancesAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := newTestCache(t, types.CacheConfig{})
	b := newTestCache(t, types.CacheConfig{})

	require.NoError(t, a.Set(ctx, "mint", &types.ResolvedMetadata{Mint: "mint"}))

	_, ok := b.Get(ctx, "mint")
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, types.CacheConfig{})
	require.NoError(t, c.Set(ctx, "mint", &types.ResolvedMetadata{Mint: "mint"}))

	require.NoError(t, c.Clear(ctx))

	_, ok := c.Get(ctx, "mint")
	assert.False(t, ok)
}

func TestCache_TTLExpires(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, types.CacheConfig{TTL: 50 * time.Millisecond})
	require.NoError(t, c.Set(ctx, "mint", &types.ResolvedMetadata{Mint: "mint"}))

	_, ok := c.Get(ctx, "mint")
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "mint")
		return !ok
	}, 2*time.Second, 20*time.Millisecond)
}
