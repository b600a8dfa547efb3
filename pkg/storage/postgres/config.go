package postgres

import (
	"errors"
	"time"
)

// Config describes the embedding cache database.
type Config struct {
	// DSN locates the database holding the embeddings table,
	// e.g. "postgres://aicogchat:secret@db:5432/aicogchat?sslmode=require".
	DSN string

	// MaxConns caps the pool. Embed batches run concurrently and each
	// cache lookup or store holds a connection briefly (default: 10).
	MaxConns int32

	// MinConns keeps idle connections warm between CLI calls (default: 1).
	MinConns int32

	// MaxConnLifetime recycles pooled connections (default: 5 minutes).
	MaxConnLifetime time.Duration

	// MigrateOnStart creates or upgrades the embeddings table in New.
	MigrateOnStart bool

	// MaxRows bounds the cache: when > 0, New keeps only the MaxRows most
	// recently used embeddings. Zero keeps every row.
	MaxRows int
}

// withDefaults returns a copy of c with unset pool settings filled in.
func (c Config) withDefaults() Config {
	if c.MaxConns == 0 {
		c.MaxConns = 10
	}
	if c.MinConns == 0 {
		c.MinConns = 1
	}
	if c.MaxConnLifetime == 0 {
		c.MaxConnLifetime = 5 * time.Minute
	}
	return c
}

// validate reports settings New cannot work with.
func (c Config) validate() error {
	var errs []error
	if c.DSN == "" {
		errs = append(errs, errors.New("postgres embedding cache: dsn is required"))
	}
	if c.MaxConns < 0 || c.MinConns < 0 {
		errs = append(errs, errors.New("postgres embedding cache: connection limits must not be negative"))
	}
	if c.MinConns > c.MaxConns && c.MaxConns > 0 {
		errs = append(errs, errors.New("postgres embedding cache: MinConns exceeds MaxConns"))
	}
	if c.MaxRows < 0 {
		errs = append(errs, errors.New("postgres embedding cache: max rows must not be negative"))
	}
	return errors.Join(errs...)
}
