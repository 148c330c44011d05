package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "console:session:"

// RedisBackend stores sealed session records in Redis with a TTL.
type RedisBackend struct {
	client redis.Cmdable
}

// NewRedisBackend wraps an existing client.
func NewRedisBackend(client redis.Cmdable) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err()
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := b.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, redisKeyPrefix+key).Err()
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
