package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
)

// Redis key prefix for session-scoped entries.
const sessionKeyPrefix = "rfm:sess:"

// RedisStore is the production session store for distributed deployments
// where multiple instances must see the same session state.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed session store. The client lifecycle is
// managed externally.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(sessionID, key string) string {
	return sessionKeyPrefix + sessionID + ":" + key
}

func (s *RedisStore) Set(ctx context.Context, sessionID, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, redisKey(sessionID, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("set session key: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	value, err := s.client.Get(ctx, redisKey(sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get session key: %w", err)
	}
	return value, nil
}

// Take uses GETDEL so duplicate triggers racing on the same key see exactly
// one winner.
func (s *RedisStore) Take(ctx context.Context, sessionID, key string) (string, error) {
	value, err := s.client.GetDel(ctx, redisKey(sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("take session key: %w", err)
	}
	return value, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := s.client.Del(ctx, redisKey(sessionID, key)).Err(); err != nil {
		return fmt.Errorf("delete session key: %w", err)
	}
	return nil
}
