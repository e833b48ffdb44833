package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/tutormatch/internal/cache"
	"github.com/oggyb/tutormatch/internal/config"
)

func setupCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	c := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

type summary struct {
	Average *float64 `json:"average"`
	Count   int64    `json:"count"`
}

func TestLikeCount(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	_, err := c.GetLikeCount(ctx, 7, time.Hour)
	assert.ErrorIs(t, err, cache.ErrMiss)

	require.NoError(t, c.Fill(ctx, time.Minute, cache.Entry{Key: c.KeyForLikeCount(7), Value: int64(3)}))
	n, err := c.GetLikeCount(ctx, 7, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// read refreshed the TTL
	assert.Equal(t, time.Hour, mr.TTL(c.KeyForLikeCount(7)))
}

func TestMGetJSON(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	require.NoError(t, mr.Set(c.KeyForRatingSummary(1), `{"average":4.5,"count":2}`))
	require.NoError(t, mr.Set(c.KeyForRatingSummary(2), `{"average":null,"count":0}`))
	require.NoError(t, mr.Set(c.KeyForRatingSummary(3), "{not json"))

	keys := []string{c.KeyForRatingSummary(1), c.KeyForRatingSummary(2), c.KeyForRatingSummary(3), c.KeyForRatingSummary(4)}
	many, err := cache.MGetJSON[summary](ctx, c, keys)
	require.NoError(t, err)
	assert.Len(t, many, 2)
	assert.Nil(t, many[c.KeyForRatingSummary(2)].Average)
	require.NotNil(t, many[c.KeyForRatingSummary(1)].Average)
	assert.Equal(t, 4.5, *many[c.KeyForRatingSummary(1)].Average)
	assert.Equal(t, int64(2), many[c.KeyForRatingSummary(1)].Count)
}

// TestFillSkipsInvalidatedKeys replays a read that loses the race against a
// write: the value loaded before Invalidate must not be cached.
func TestFillSkipsInvalidatedKeys(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)
	stale, fresh := c.KeyForRatingSummary(1), c.KeyForRatingSummary(2)

	gens, err := c.Generations(ctx, stale, fresh)
	require.NoError(t, err)
	assert.Equal(t, []string{"", ""}, gens)

	require.NoError(t, c.Invalidate(ctx, stale))

	require.NoError(t, c.Fill(ctx, time.Hour,
		cache.Entry{Key: stale, Gen: gens[0], Value: `{"count":1}`},
		cache.Entry{Key: fresh, Gen: gens[1], Value: `{"count":2}`},
	))
	assert.False(t, mr.Exists(stale))
	got, err := mr.Get(fresh)
	require.NoError(t, err)
	assert.Equal(t, `{"count":2}`, got)
	assert.Equal(t, time.Hour, mr.TTL(fresh))

	// a read that starts after the invalidation fills normally
	gens, err = c.Generations(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, gens)
	require.NoError(t, c.Fill(ctx, time.Hour, cache.Entry{Key: stale, Gen: gens[0], Value: `{"count":3}`}))
	assert.True(t, mr.Exists(stale))

	require.NoError(t, c.Invalidate(ctx, stale, fresh))
	assert.False(t, mr.Exists(stale))
	assert.False(t, mr.Exists(fresh))
}
