package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const consumeScript = `
local value = redis.call("GET", KEYS[1])
if value then
  redis.call("DEL", KEYS[1])
end
return value
`

var consumeLua = redis.NewScript(consumeScript)

// RedisStore implements [Store] on a go-redis client.
type RedisStore struct {
	redis redis.UniversalClient
	mode  ConsumeMode
}

// NewRedisStore returns a [RedisStore] that consumes keys with mode.
func NewRedisStore(client redis.UniversalClient, mode ConsumeMode) *RedisStore {
	return &RedisStore{
		redis: client,
		mode:  mode,
	}
}

// Mode reports the configured consume primitive.
func (s *RedisStore) Mode() ConsumeMode {
	return s.mode
}

// Get returns the string value at key.
//
//	Performance: 1 Redis GET.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return "", classify(err)
	}
	return value, nil
}

// Set writes value at key. A zero ttl stores the key without expiry.
//
//	Performance: 1 Redis SET.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		return fmt.Errorf("store: negative ttl for %q", key)
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		return classify(err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
//
//	Performance: 1 Redis DEL.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return classify(err)
	}
	return nil
}

// Consume reads and removes key using the configured [ConsumeMode].
//
//	Performance: 1 Redis round trip (2 for ConsumeGetThenDelete).
func (s *RedisStore) Consume(ctx context.Context, key string) (string, error) {
	switch s.mode {
	case ConsumeGetDel:
		value, err := s.redis.GetDel(ctx, key).Result()
		if err != nil {
			return "", classify(err)
		}
		return value, nil

	case ConsumeScript:
		value, err := consumeLua.Run(ctx, s.redis, []string{key}).Text()
		if err != nil {
			return "", classify(err)
		}
		return value, nil

	case ConsumeGetThenDelete:
		value, err := s.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if err := s.Delete(ctx, key); err != nil {
			return "", err
		}
		return value, nil

	default:
		return "", fmt.Errorf("store: unsupported consume mode %d", s.mode)
	}
}

// Expire resets the TTL of an existing key. A missing key reports [ErrNotFound].
func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("store: expire requires a positive ttl for %q", key)
	}
	ok, err := s.redis.Expire(ctx, key, ttl).Result()
	if err != nil {
		return classify(err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Ping checks connectivity to the backing server.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
