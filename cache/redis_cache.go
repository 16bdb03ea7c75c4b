package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisCache struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisCache(ctx context.Context, redisAddress string, keyPrefix string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        redisAddress,
		ReadTimeout: time.Second * 20,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client:    client,
		keyPrefix: keyPrefix,
	}, nil
}

func (cache *RedisCache) SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return cache.client.Set(ctx, cache.keyPrefix+key, value, expiration).Err()
}

func (cache *RedisCache) GetBytes(ctx context.Context, key string) ([]byte, error) {
	value, err := cache.client.Get(ctx, cache.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (cache *RedisCache) Close() error {
	return cache.client.Close()
}
