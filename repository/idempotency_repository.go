package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingMarker = "pending"

// ErrInFlight is returned by RedisIdempotencyStore.Get while the original
// request holding the key has not finished yet.
var ErrInFlight = errors.New("request with this idempotency key is in progress")

type RedisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func (r *RedisIdempotencyStore) getKey(key string) string {
	return "idem:checkout:" + key
}

func (r *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, r.getKey(key), pendingMarker, ttl).Result()
}

// Get returns the stored result, "" when the key is unknown, or ErrInFlight.
func (r *RedisIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.getKey(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if val == pendingMarker {
		return "", ErrInFlight
	}
	return val, nil
}

func (r *RedisIdempotencyStore) Complete(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.getKey(key), value, ttl).Err()
}

func (r *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.getKey(key)).Err()
}
