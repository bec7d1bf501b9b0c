package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/park-booking/internal/config"
)

// Backend bundles the selected blob store with whatever connections it owns.
type Backend struct {
	Blobs    BlobStore
	postgres *Postgres
	redis    *Redis
}

// OpenBackend connects the storage backend named in cfg.Storage.
func OpenBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Backend, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendFile:
		logger.Info("using file storage", zap.String("dir", cfg.Storage.Dir))
		return &Backend{Blobs: NewFileBlobStore(cfg.Storage.Dir)}, nil

	case config.StorageBackendPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &Backend{Blobs: NewPostgresBlobStore(pg), postgres: pg}, nil

	case config.StorageBackendRedis:
		rds := NewRedis(cfg.Redis, logger)
		return &Backend{Blobs: NewRedisBlobStore(rds, cfg.Storage.RedisKeyPrefix), redis: rds}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Close releases backend connections.
func (b *Backend) Close() {
	if b == nil {
		return
	}
	b.postgres.Close()
	b.redis.Close()
}
