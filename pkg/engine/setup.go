package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cogpy/aicogchat/pkg/config"
	"github.com/cogpy/aicogchat/pkg/provider"
	"github.com/cogpy/aicogchat/pkg/provider/openaicompat"
	"github.com/cogpy/aicogchat/pkg/provider/opencog"
	"github.com/cogpy/aicogchat/pkg/storage"
	"github.com/cogpy/aicogchat/pkg/storage/memory"
	"github.com/cogpy/aicogchat/pkg/storage/postgres"
)

// NewFromConfig builds the registry, HTTP transport and embedding cache
// described by cfg and returns an Engine owning them. Close releases them.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Engine, error) {
	reg, err := BuildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	client, err := openaicompat.NewClient(openaicompat.Config{
		Timeout:        cfg.HTTP.Timeout,
		ConnectTimeout: cfg.HTTP.ConnectTimeout,
		Proxy:          cfg.HTTP.Proxy,
	})
	if err != nil {
		return nil, fmt.Errorf("creating http client: %w", err)
	}

	cache, err := OpenCache(ctx, cfg.Storage)
	if err != nil {
		client.Close()
		return nil, err
	}

	e, err := New(reg, client, cache, Config{DefaultModel: cfg.DefaultModel})
	if err != nil {
		client.Close()
		return nil, err
	}
	e.closers = append(e.closers, client.Close)
	if cache != nil {
		e.closers = append(e.closers, cache.Close)
	}
	return e, nil
}

// BuildRegistry creates a registry with every known client type installed
// and one client added per cfg.Clients entry.
func BuildRegistry(cfg *config.Config) (*provider.Registry, error) {
	reg := provider.NewRegistry()
	opencog.Register(reg)

	for _, c := range cfg.Clients {
		models := make([]provider.Model, len(c.Models))
		for i, m := range c.Models {
			models[i] = provider.Model{
				Name:             m.Name,
				WireName:         m.RealName,
				Type:             provider.ModelType(m.Type),
				MaxOutputTokens:  m.MaxOutputTokens,
				RequireMaxTokens: m.RequireMaxTokens,
				MaxBatchSize:     m.MaxBatchSize,
			}
		}

		err := reg.AddClient(c.Type, provider.Settings{
			Name:    c.Name,
			APIBase: c.APIBase,
			APIKey:  c.APIKey,
			Models:  models,
		})
		if err != nil {
			return nil, err
		}
		slog.Debug("client registered", "type", c.Type, "name", c.Name, "models", len(models))
	}
	return reg, nil
}

// OpenCache creates the embedding cache selected by cfg.Type. It returns a
// nil store for "none".
func OpenCache(ctx context.Context, cfg config.StorageConfig) (storage.EmbeddingStore, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "memory":
		slog.Debug("using in-memory embedding cache", "max_size", cfg.MaxSize)
		return memory.New(cfg.MaxSize), nil
	case "postgres":
		store, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Postgres.DSN,
			MaxConns:       cfg.Postgres.MaxConns,
			MigrateOnStart: cfg.Postgres.MigrateOnStart,
			MaxRows:        cfg.MaxSize,
		})
		if err != nil {
			return nil, fmt.Errorf("opening postgres cache: %w", err)
		}
		slog.Debug("using postgres embedding cache")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
