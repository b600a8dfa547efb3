// Package memory provides an in-memory storage.EmbeddingStore. Vectors are
// lost when the process exits. Optional LRU eviction bounds memory usage.
package memory

import (
	"container/list"
	"context"
	"sync"

	"github.com/cogpy/aicogchat/pkg/storage"
)

// entry holds a cached vector and its position in the LRU list.
type entry struct {
	key     string
	vec     []float32
	lruElem *list.Element
}

// Store is an in-memory EmbeddingStore with optional LRU eviction.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	lruList *list.List // front = most recently used, back = least recently used
	maxSize int        // 0 = unlimited
}

// Ensure Store implements storage.EmbeddingStore at compile time.
var _ storage.EmbeddingStore = (*Store)(nil)

// New creates a new in-memory store. If maxSize is 0, the store grows
// without limit. If maxSize > 0, the least recently used entry is evicted
// when the limit is reached.
func New(maxSize int) *Store {
	return &Store{
		entries: make(map[string]*entry),
		lruList: list.New(),
		maxSize: maxSize,
	}
}

// Get returns a copy of the vector cached under key and marks it as
// recently used. Returns storage.ErrNotFound on a miss.
func (s *Store) Get(_ context.Context, key string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	s.lruList.MoveToFront(e.lruElem)
	return append([]float32(nil), e.vec...), nil
}

// Put caches a copy of vec under key.
func (s *Store) Put(_ context.Context, key string, vec []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vec = append([]float32(nil), vec...)

	if e, ok := s.entries[key]; ok {
		e.vec = vec
		s.lruList.MoveToFront(e.lruElem)
		return nil
	}

	if s.maxSize > 0 && len(s.entries) >= s.maxSize {
		s.evictOldest()
	}

	s.entries[key] = &entry{
		key:     key,
		vec:     vec,
		lruElem: s.lruList.PushFront(key),
	}
	return nil
}

// Len returns the number of cached vectors.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// HealthCheck always returns nil for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// evictOldest removes the least recently used entry.
// Must be called with s.mu held.
func (s *Store) evictOldest() {
	back := s.lruList.Back()
	if back == nil {
		return
	}
	key := back.Value.(string)
	s.lruList.Remove(back)
	delete(s.entries, key)
}
