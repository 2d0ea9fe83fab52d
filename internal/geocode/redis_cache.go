package geocode

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/droproute/droproute/internal/geo"
)

// redisKeyPrefix namespaces geocode entries in a shared Redis instance.
const redisKeyPrefix = "geocode:"

// RedisCache is a Cache backed by Redis, for deployments where several API
// instances should share resolved addresses. A zero TTL keeps entries until
// Redis evicts them, matching the no-eviction in-memory behavior.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// RedisCacheConfig holds configuration for the Redis cache.
type RedisCacheConfig struct {
	// Client is the Redis client (required).
	Client *redis.Client

	// TTL is the entry lifetime. Zero means no expiry.
	TTL time.Duration

	// Logger for cache operations.
	Logger zerolog.Logger
}

// NewRedisCache creates a Redis-backed geocode cache.
func NewRedisCache(cfg RedisCacheConfig) *RedisCache {
	return &RedisCache{
		client: cfg.Client,
		ttl:    cfg.TTL,
		logger: cfg.Logger,
	}
}

type cachedCoordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Get returns the cached coordinate for the address, if present.
// Redis failures are treated as cache misses.
func (c *RedisCache) Get(ctx context.Context, address string) (geo.Coordinate, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+address).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("geocode cache read failed")
		}
		return geo.Coordinate{}, false
	}

	var entry cachedCoordinate
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn().Err(err).Str("address", address).Msg("corrupt geocode cache entry")
		return geo.Coordinate{}, false
	}

	return geo.Coordinate{Lat: entry.Lat, Lon: entry.Lon}, true
}

// Put stores the coordinate for the address. Write failures are logged and
// otherwise ignored; the next lookup simply re-resolves.
func (c *RedisCache) Put(ctx context.Context, address string, coord geo.Coordinate) {
	raw, err := json.Marshal(cachedCoordinate{Lat: coord.Lat, Lon: coord.Lon})
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, redisKeyPrefix+address, raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("geocode cache write failed")
	}
}
