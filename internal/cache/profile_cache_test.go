package cache

import (
	"context"
	"testing"
	"time"

	dom "accounts/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ProfileCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewProfileCache(rdb, time.Minute), mr
}

func TestProfileCache(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got, "miss returns nil, nil")

	p := dom.Profile{Name: "Alice", Email: "alice@x.com", UpdatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, c.Set(ctx, 1, p))

	got, err = c.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Email, got.Email)
	assert.True(t, p.UpdatedAt.Equal(got.UpdatedAt))

	// entries for other users are untouched by invalidation
	require.NoError(t, c.Set(ctx, 2, dom.Profile{Name: "Bob"}))
	require.NoError(t, c.Invalidate(ctx, 1))

	got, err = c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
	other, err := c.Get(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, other)

	// cache entries expire on their own
	mr.FastForward(2 * time.Minute)
	other, err = c.Get(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, other)
}
