// Package postgres provides a PostgreSQL storage.EmbeddingStore. It uses
// pgx/v5 for connection pooling and stores vectors as REAL[] columns.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cogpy/aicogchat/pkg/debug"
	"github.com/cogpy/aicogchat/pkg/storage"
)

// Store is a PostgreSQL-backed EmbeddingStore.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.EmbeddingStore at compile time.
var _ storage.EmbeddingStore = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically;
// if MaxRows is set, the cache is pruned afterwards.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	if cfg.MaxRows > 0 {
		n, err := s.Prune(ctx, cfg.MaxRows)
		if err != nil {
			pool.Close()
			return nil, err
		}
		debug.Log("storage", "pruned embedding cache", "removed", n, "keep", cfg.MaxRows)
	}

	return s, nil
}

// Get returns the vector cached under key, or storage.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]float32, error) {
	var vec []float32
	err := s.pool.QueryRow(ctx, `
		UPDATE embeddings SET used_at = now()
		WHERE key = $1
		RETURNING embedding
	`, key).Scan(&vec)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying embedding: %w", err)
	}
	return vec, nil
}

// Put stores vec under key, replacing any previous vector.
func (s *Store) Put(ctx context.Context, key string, vec []float32) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO embeddings (key, embedding, dimensions)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET embedding = EXCLUDED.embedding,
		    dimensions = EXCLUDED.dimensions,
		    used_at = now()
	`, key, vec, len(vec))
	if err != nil {
		return fmt.Errorf("upserting embedding: %w", err)
	}
	debug.Log("storage", "embedding cached", "key", key, "dimensions", len(vec))
	return nil
}

// Prune deletes all but the keep most recently used vectors and returns
// the number of rows removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM embeddings
		WHERE key NOT IN (
			SELECT key FROM embeddings ORDER BY used_at DESC LIMIT $1
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning embeddings: %w", err)
	}
	return tag.RowsAffected(), nil
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
