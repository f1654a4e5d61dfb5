// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pdiddy/reference-search/internal/table"
	"github.com/pdiddy/reference-search/pkg/types"
)

// KeyPrefix namespaces snapshot keys in Redis:
//
//	SET reference-search:snapshot:<key> <JSON> EX <ttl>
const KeyPrefix = "reference-search:snapshot:"

// Redis stores snapshots as JSON strings with a Redis-side expiry.
type Redis struct {
	client *redis.Client
}

// NewRedis connects lazily to the server described by cfg.
func NewRedis(cfg types.RedisConfig) *Redis {
	return NewRedisClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}))
}

// NewRedisClient wraps an existing client.
func NewRedisClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get returns the snapshot for key, if Redis still holds it.
func (r *Redis) Get(ctx context.Context, key string) (*table.Table, bool, error) {
	data, err := r.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis GET %s: %w", key, err)
	}
	t, err := decode(data)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// Put stores the snapshot with expiry ttl.
func (r *Redis) Put(ctx context.Context, key string, t *table.Table, ttl time.Duration) error {
	data, err := encode(t)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, KeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key under KeyPrefix.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis SCAN: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis DEL: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
