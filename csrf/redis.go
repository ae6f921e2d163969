package csrf

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "csrf:"

// RedisStore keeps bindings in Redis under <prefix><session id>, expiring
// with the token TTL. Several server instances can share it.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Bind(ctx context.Context, tok string, ttl time.Duration) (string, error) {
	sid, err := newSessionID()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.prefix+sid, tok, ttl).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

func (s *RedisStore) Lookup(ctx context.Context, sid string) (string, error) {
	tok, err := s.client.Get(ctx, s.prefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return tok, nil
}

// Ping checks the connection to Redis.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
