// Package engine ties the pieces of aicogchat together. An Engine resolves
// a model id through the provider registry, validates the request, sends
// it with the HTTP transport and hands the reply to the provider for
// decoding. Embeddings are split into per-model batches, sent
// concurrently and cached in an optional storage.EmbeddingStore. Every
// exchange is recorded in the Prometheus metrics of package observability.
package engine
