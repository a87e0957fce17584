package store

import (
	"context"
	"errors"

	"github.com/avelar/linkshort/internal/shortener"
	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis implementation of shortener.Cache. Entries carry no
// TTL; they live until the cache evicts them under its own memory pressure.
type RedisCache struct {
	client   *redis.Client
	prefix   string // "url:" for code -> mapping (hash keys)
	indexKey string // "url_codes" for longURL -> code (hash map)
}

// NewRedisCache creates a new Redis-backed mapping cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:   client,
		prefix:   "url:",
		indexKey: "url_codes",
	}
}

func (r *RedisCache) GetURL(ctx context.Context, code shortener.Code) (string, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return "", err
	}

	if len(result) == 0 {
		return "", shortener.ErrNotFound
	}

	return result["long_url"], nil
}

func (r *RedisCache) GetCode(ctx context.Context, longURL string) (shortener.Code, error) {
	code, err := r.client.HGet(ctx, r.indexKey, longURL).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrNotFound
		}

		return "", err
	}

	return shortener.Code(code), nil
}

// Put writes both cache directions atomically via a pipeline.
func (r *RedisCache) Put(ctx context.Context, m *shortener.Mapping) error {
	pipe := r.client.Pipeline()
	key := r.prefix + string(m.Code)

	pipe.HSet(ctx, key, map[string]interface{}{
		"code":       string(m.Code),
		"long_url":   m.LongURL,
		"created_at": m.CreatedAt.UnixNano(),
	})
	pipe.HSet(ctx, r.indexKey, m.LongURL, string(m.Code))

	_, err := pipe.Exec(ctx)

	return err
}

// Compile-time check.
var _ shortener.Cache = (*RedisCache)(nil)
