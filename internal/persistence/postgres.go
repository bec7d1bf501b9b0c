package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/park-booking/internal/config"
)

// Postgres wraps access to a pgx connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres establishes a connection pool when DSN is provided.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; skipping database connection")
		return &Postgres{Pool: nil}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &Postgres{Pool: pool}, nil
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// PoolHandle returns the underlying pgx pool.
func (p *Postgres) PoolHandle() *pgxpool.Pool {
	if p == nil {
		return nil
	}
	return p.Pool
}

// Ping verifies database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.Pool.Ping(ctx)
}

// PostgresBlobStore keeps snapshots as rows of the snapshots table.
type PostgresBlobStore struct {
	pg *Postgres
}

// NewPostgresBlobStore returns a snapshot store over pg.
func NewPostgresBlobStore(pg *Postgres) *PostgresBlobStore {
	return &PostgresBlobStore{pg: pg}
}

// Name identifies the backend in logs and health output.
func (s *PostgresBlobStore) Name() string {
	return "postgres"
}

// Load fetches the payload stored under key.
func (s *PostgresBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT payload FROM snapshots WHERE name=$1`

	pool := s.pg.PoolHandle()
	if pool == nil {
		return nil, errors.New("postgres pool not configured")
	}

	var payload []byte
	if err := pool.QueryRow(ctx, query, key).Scan(&payload); err != nil {
		return nil, translatePgError(key, err)
	}
	return payload, nil
}

// Save upserts the full payload for key.
func (s *PostgresBlobStore) Save(ctx context.Context, key string, data []byte) error {
	const query = `
        INSERT INTO snapshots (name, payload, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (name) DO UPDATE SET payload=EXCLUDED.payload, updated_at=NOW()`

	pool := s.pg.PoolHandle()
	if pool == nil {
		return errors.New("postgres pool not configured")
	}
	if _, err := pool.Exec(ctx, query, key, data); err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *PostgresBlobStore) Ping(ctx context.Context) error {
	return s.pg.Ping(ctx)
}

func translatePgError(key string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrBlobNotFound
	}
	return fmt.Errorf("load snapshot %s: %w", key, err)
}
