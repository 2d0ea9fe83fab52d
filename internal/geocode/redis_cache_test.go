package geocode

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droproute/droproute/internal/geo"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(RedisCacheConfig{
		Client: client,
		Logger: zerolog.Nop(),
	}), srv
}

func TestRedisCache_PutAndGet(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	coord := geo.Coordinate{Lat: 37.7219, Lon: -122.4782}
	cache.Put(ctx, "1600 Holloway Ave", coord)

	got, ok := cache.Get(ctx, "1600 Holloway Ave")
	require.True(t, ok)
	assert.Equal(t, coord, got)
}

func TestRedisCache_GetMiss(t *testing.T) {
	cache, _ := newTestRedisCache(t)

	_, ok := cache.Get(context.Background(), "never stored")
	assert.False(t, ok)
}

func TestRedisCache_CorruptEntryIsAMiss(t *testing.T) {
	cache, srv := newTestRedisCache(t)

	require.NoError(t, srv.Set(redisKeyPrefix+"bad entry", "not json"))

	_, ok := cache.Get(context.Background(), "bad entry")
	assert.False(t, ok)
}

func TestRedisCache_KeysAreExact(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	cache.Put(ctx, "12 Main St", geo.Coordinate{Lat: 1, Lon: 2})

	_, ok := cache.Get(ctx, "12 main st")
	assert.False(t, ok, "keys are case-sensitive")
}
