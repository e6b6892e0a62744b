package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"route-weather-service/internal/platform/obs"
	"route-weather-service/internal/ports"
)

const redisKeyPrefix = "geocode:"

// RedisGeocodeCache stores geocode results as JSON values with a TTL.
type RedisGeocodeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGeocodeCache(rdb *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{rdb: rdb, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

type redisEntry struct {
	Name      string  `json:"name"`
	AdminCode string  `json:"adminCode,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

func redisKey(token string) string {
	return redisKeyPrefix + strings.ToLower(strings.TrimSpace(token))
}

func (c *RedisGeocodeCache) Get(ctx context.Context, token string) (_ *ports.GeocodeResult, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.redis.Get")(&err)

	b, err := c.rdb.Get(ctx, redisKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get geocode cache: redis get: %w", err)
	}

	var e redisEntry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, false, fmt.Errorf("get geocode cache: decode entry: %w", err)
	}

	res := &ports.GeocodeResult{Name: e.Name, AdminRegionCode: e.AdminCode}
	res.Coords.Lat, res.Coords.Lon = e.Lat, e.Lon
	return res, true, nil
}

func (c *RedisGeocodeCache) Put(ctx context.Context, token string, res ports.GeocodeResult) (err error) {
	defer obs.Time(ctx, "geocode.cache.redis.Put")(&err)

	b, err := json.Marshal(redisEntry{
		Name:      res.Name,
		AdminCode: res.AdminRegionCode,
		Lat:       res.Coords.Lat,
		Lon:       res.Coords.Lon,
	})
	if err != nil {
		return fmt.Errorf("insert geocode cache: encode entry: %w", err)
	}

	if err := c.rdb.Set(ctx, redisKey(token), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert geocode cache: redis set: %w", err)
	}
	return nil
}
