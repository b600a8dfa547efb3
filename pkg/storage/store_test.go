package storage

import "testing"

func TestCacheKey(t *testing.T) {
	a := CacheKey("opencog:embed", "AtomSpace")

	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(a))
	}
	if a != CacheKey("opencog:embed", "AtomSpace") {
		t.Error("key is not deterministic")
	}
	if a == CacheKey("opencog:other", "AtomSpace") {
		t.Error("different models must not share a key")
	}
	if a == CacheKey("opencog:embed", "Atomspace") {
		t.Error("different texts must not share a key")
	}
	// The separator keeps model/text boundaries distinct.
	if CacheKey("ab", "c") == CacheKey("a", "bc") {
		t.Error("model/text boundary is ambiguous")
	}
}
