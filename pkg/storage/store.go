package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// EmbeddingStore caches embedding vectors by key. Implementations must be
// safe for concurrent use.
type EmbeddingStore interface {
	// Get returns the vector stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]float32, error)

	// Put stores vec under key, replacing any previous value.
	Put(ctx context.Context, key string, vec []float32) error

	// HealthCheck verifies the store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}

// CacheKey returns the content-addressed key for text embedded by model.
// Vectors from different models never share a key.
func CacheKey(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
