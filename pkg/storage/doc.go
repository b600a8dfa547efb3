// Package storage defines the embedding cache used by the engine and the
// helpers shared by its adapters (memory, postgres): the EmbeddingStore
// interface, content-addressed cache keys and sentinel errors.
package storage
