package booking

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// KeyIndex caches idempotency key -> session id. The session store's unique
// index stays authoritative; the cache only saves a store round trip.
type KeyIndex interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	Remember(ctx context.Context, key, sessionID string) error
	Forget(ctx context.Context, key string) error
}

const idempotencyPrefix = "idem:"

// RedisKeyIndex stores the mapping in Redis with a TTL.
type RedisKeyIndex struct {
	Client *redis.Client
	TTL    time.Duration
}

func (r *RedisKeyIndex) Lookup(ctx context.Context, key string) (string, bool, error) {
	id, err := r.Client.Get(ctx, idempotencyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (r *RedisKeyIndex) Remember(ctx context.Context, key, sessionID string) error {
	// SETNX: a key never changes owner.
	return r.Client.SetNX(ctx, idempotencyPrefix+key, sessionID, r.TTL).Err()
}

func (r *RedisKeyIndex) Forget(ctx context.Context, key string) error {
	return r.Client.Del(ctx, idempotencyPrefix+key).Err()
}

type noKeyIndex struct{}

func (noKeyIndex) Lookup(context.Context, string) (string, bool, error) { return "", false, nil }
func (noKeyIndex) Remember(context.Context, string, string) error       { return nil }
func (noKeyIndex) Forget(context.Context, string) error                 { return nil }
