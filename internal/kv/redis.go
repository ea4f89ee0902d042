package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	appredis "github.com/Proton-105/cortex-client/pkg/redis"
)

// redisClient is the subset of the Redis wrappers in pkg/redis used by RedisStore.
type redisClient interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisStore persists values in Redis without expiry.
type RedisStore struct {
	client redisClient
	log    *slog.Logger
}

// NewRedisStore wraps a pkg/redis client (plain or metrics-instrumented).
func NewRedisStore(client redisClient, log *slog.Logger) *RedisStore {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStore{client: client, log: log}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, appredis.Nil) {
			return nil, ErrNotFound
		}

		s.log.Error("failed to get value from redis", slog.String("key", key), slog.Any("error", err))
		return nil, fmt.Errorf("get %s from redis: %w", key, err)
	}

	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0); err != nil {
		s.log.Error("failed to save value in redis", slog.String("key", key), slog.Any("error", err))
		return fmt.Errorf("set %s in redis: %w", key, err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Delete(ctx, key); err != nil {
		s.log.Error("failed to delete value from redis", slog.String("key", key), slog.Any("error", err))
		return fmt.Errorf("delete %s from redis: %w", key, err)
	}

	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
