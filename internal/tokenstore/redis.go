package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// RedisStore keeps one session's token in Redis so it outlives the web
// process. The key expires ttl after the last Set or Touch.
type RedisStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, sessionID string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, key: RedisKey(sessionID), ttl: ttl}
}

// RedisKey is the Redis key holding the token of sessionID.
func RedisKey(sessionID string) string {
	return "bookshelf:session:" + sessionID + ":" + TokenKey
}

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	val, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, token string) error {
	if err := s.rdb.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("set token: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Touch extends the key's expiry. A missing key is not an error.
func (s *RedisStore) Touch(ctx context.Context) error {
	if err := s.rdb.Expire(ctx, s.key, s.ttl).Err(); err != nil {
		return fmt.Errorf("touch token: %w", err)
	}
	return nil
}
