package websearch

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

// Cache stores normalized results per query.
type Cache interface {
	Get(ctx context.Context, query string) (Result, bool)
	Set(ctx context.Context, query string, result Result)
}

// RedisCache keeps results in redis under websearch:<xxhash(query)>.
// Errors are swallowed: a cache miss is always a safe answer.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func CacheKey(query string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	return "websearch:" + strconv.FormatUint(xxhash.Sum64String(normalized), 16)
}

func (c *RedisCache) Get(ctx context.Context, query string) (Result, bool) {
	raw, err := c.rdb.Get(ctx, CacheKey(query)).Bytes()
	if err != nil {
		return Result{}, false
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, false
	}
	return res, true
}

func (c *RedisCache) Set(ctx context.Context, query string, result Result) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, CacheKey(query), raw, c.ttl).Err()
}
