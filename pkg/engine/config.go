package engine

// Config holds configuration for the core engine.
type Config struct {
	// DefaultModel is used when a call names no model. When empty, the
	// first configured model of the required type is used.
	DefaultModel string

	// MaxConcurrentBatches bounds the embeddings batches in flight for one
	// Embed call. Zero or negative means use the default of 4.
	MaxConcurrentBatches int
}

// concurrency returns the effective batch concurrency, defaulting to 4.
func (c Config) concurrency() int {
	if c.MaxConcurrentBatches <= 0 {
		return 4
	}
	return c.MaxConcurrentBatches
}
