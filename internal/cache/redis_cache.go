package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"forumhub/internal/config"
	"forumhub/internal/domain"
)

// RedisSearchCache is a Redis-backed SearchCache.
type RedisSearchCache struct {
	client *redis.Client
	prefix string
}

// NewRedisSearchCache creates a new Redis-backed search cache.
func NewRedisSearchCache(cfg config.RedisConfig, prefix string) (*RedisSearchCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisSearchCache{
		client: client,
		prefix: prefix,
	}, nil
}

// key namespaces a search query under the cache prefix. Every stored entry
// goes through here so Flush's scan pattern covers all of them.
func (c *RedisSearchCache) key(query string) string {
	return fmt.Sprintf("%s:q:%s", c.prefix, query)
}

func (c *RedisSearchCache) flushPattern() string {
	return c.prefix + ":q:*"
}

func (c *RedisSearchCache) Get(ctx context.Context, query string) (*domain.HomeResponse, error) {
	data, err := c.client.Get(ctx, c.key(query)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var result domain.HomeResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &result, nil
}

func (c *RedisSearchCache) Set(ctx context.Context, query string, result *domain.HomeResponse, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, c.key(query), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

// Flush drops every cached search entry under the cache prefix.
func (c *RedisSearchCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.flushPattern(), 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to flush cache keys: %w", err)
	}
	return nil
}

// Close closes the Redis client connection.
func (c *RedisSearchCache) Close() error {
	return c.client.Close()
}

// Ensure RedisSearchCache implements SearchCache interface
var _ SearchCache = (*RedisSearchCache)(nil)
