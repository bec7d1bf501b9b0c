package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/park-booking/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// RedisBlobStore keeps each snapshot in a single string key.
type RedisBlobStore struct {
	redis  *Redis
	prefix string
}

// NewRedisBlobStore returns a snapshot store that namespaces keys with prefix.
func NewRedisBlobStore(r *Redis, prefix string) *RedisBlobStore {
	return &RedisBlobStore{redis: r, prefix: prefix}
}

// Name identifies the backend in logs and health output.
func (s *RedisBlobStore) Name() string {
	return "redis"
}

// Key returns the redis key used for a snapshot name.
func (s *RedisBlobStore) Key(key string) string {
	return s.prefix + key
}

// Load fetches the payload stored under key.
func (s *RedisBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	if s.redis == nil || s.redis.Client == nil {
		return nil, errors.New("redis client not configured")
	}
	data, err := s.redis.Client.Get(ctx, s.Key(key)).Bytes()
	if err != nil {
		return nil, translateRedisError(key, err)
	}
	return data, nil
}

// Save replaces the payload stored under key.
func (s *RedisBlobStore) Save(ctx context.Context, key string, data []byte) error {
	if s.redis == nil || s.redis.Client == nil {
		return errors.New("redis client not configured")
	}
	if err := s.redis.Client.Set(ctx, s.Key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// Ping verifies Redis connectivity.
func (s *RedisBlobStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx)
}

func translateRedisError(key string, err error) error {
	if errors.Is(err, redis.Nil) {
		return ErrBlobNotFound
	}
	return fmt.Errorf("load snapshot %s: %w", key, err)
}
