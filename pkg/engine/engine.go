package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cogpy/aicogchat/pkg/api"
	"github.com/cogpy/aicogchat/pkg/debug"
	"github.com/cogpy/aicogchat/pkg/observability"
	"github.com/cogpy/aicogchat/pkg/provider"
	"github.com/cogpy/aicogchat/pkg/storage"
)

// Transport executes prepared provider requests.
// openaicompat.Client is the production implementation.
type Transport interface {
	// Do sends a request and returns the status and full body.
	Do(ctx context.Context, req *provider.Request) (int, []byte, error)

	// Stream sends a request and returns the open response.
	Stream(ctx context.Context, req *provider.Request) (*http.Response, error)
}

// Engine routes chat and embeddings calls to configured providers.
type Engine struct {
	registry  *provider.Registry
	transport Transport
	cache     storage.EmbeddingStore
	cfg       Config
	closers   []func() error
}

// New creates a new Engine. The registry and transport must not be nil.
// The cache can be nil to disable embedding caching.
func New(reg *provider.Registry, tr Transport, cache storage.EmbeddingStore, cfg Config) (*Engine, error) {
	if reg == nil {
		return nil, fmt.Errorf("engine: registry must not be nil")
	}
	if tr == nil {
		return nil, fmt.Errorf("engine: transport must not be nil")
	}
	return &Engine{
		registry:  reg,
		transport: tr,
		cache:     cache,
		cfg:       cfg,
	}, nil
}

// Models lists the configured models.
func (e *Engine) Models() []provider.Model {
	return e.registry.Models()
}

// Chat performs a non-streaming chat completion. The request's Stream flag
// is ignored.
func (e *Engine) Chat(ctx context.Context, modelID string, req *provider.ChatRequest) (*provider.ChatCompletionsOutput, error) {
	p, model, err := e.resolve(modelID, provider.ModelTypeChat)
	if err != nil {
		return nil, err
	}
	if apiErr := provider.ValidateChatRequest(req); apiErr != nil {
		return nil, apiErr
	}

	r := *req
	r.Stream = false
	preq, err := p.PrepareChat(&r, model)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	status, body, err := e.transport.Do(ctx, preq)
	var out *provider.ChatCompletionsOutput
	if err == nil {
		out, err = p.ParseChat(status, body)
	}
	e.record(p.Name(), model, start, observability.StatusLabel(err))

	if err != nil {
		return nil, err
	}
	if out.InputTokens != nil {
		observability.ProviderTokensTotal.WithLabelValues(p.Name(), model.Name, "input").Add(float64(*out.InputTokens))
	}
	if out.OutputTokens != nil {
		observability.ProviderTokensTotal.WithLabelValues(p.Name(), model.Name, "output").Add(float64(*out.OutputTokens))
	}
	return out, nil
}

// ChatStream performs a streaming chat completion, passing text fragments
// and the final tool call to h as they are decoded. It returns
// StreamPartial with a nil error when ctx is cancelled or the backend
// closes the stream before it completes.
func (e *Engine) ChatStream(ctx context.Context, modelID string, req *provider.ChatRequest, h provider.StreamHandler) (provider.StreamStatus, error) {
	p, model, err := e.resolve(modelID, provider.ModelTypeChat)
	if err != nil {
		return provider.StreamPartial, err
	}
	if apiErr := provider.ValidateChatRequest(req); apiErr != nil {
		return provider.StreamPartial, apiErr
	}

	r := *req
	r.Stream = true
	preq, err := p.PrepareChat(&r, model)
	if err != nil {
		return provider.StreamPartial, err
	}

	start := time.Now()
	resp, err := e.transport.Stream(ctx, preq)
	if err != nil {
		e.record(p.Name(), model, start, observability.StatusLabel(err))
		return provider.StreamPartial, err
	}
	defer resp.Body.Close()

	status, err := p.DecodeStream(ctx, resp.StatusCode, resp.Body, &countingHandler{next: h, provider: p.Name()})

	label := observability.StatusLabel(err)
	if err == nil && status == provider.StreamPartial {
		label = "partial"
	}
	e.record(p.Name(), model, start, label)
	debug.Log("streaming", "stream finished", "model", model.ID(), "status", status.String())

	return status, err
}

// ChatEvents runs ChatStream on a new goroutine and delivers its output on
// the returned channel: text deltas, at most one tool call, then a single
// Done or Error event. The channel is closed afterwards.
func (e *Engine) ChatEvents(ctx context.Context, modelID string, req *provider.ChatRequest) <-chan provider.StreamEvent {
	ch := make(chan provider.StreamEvent, 16)
	go func() {
		defer close(ch)
		status, err := e.ChatStream(ctx, modelID, req, provider.NewChannelHandler(ctx, ch))

		final := provider.StreamEvent{Type: provider.StreamEventDone, Status: status}
		if err != nil {
			final = provider.StreamEvent{Type: provider.StreamEventError, Err: err}
		}
		select {
		case ch <- final:
		case <-ctx.Done():
		}
	}()
	return ch
}

// Embed returns one vector per text, in order. Cached vectors are reused;
// the rest are requested in batches of the model's max batch size, sent
// concurrently. Any failed batch fails the whole call.
func (e *Engine) Embed(ctx context.Context, modelID string, texts []string) (provider.EmbeddingsOutput, error) {
	p, model, err := e.resolve(modelID, provider.ModelTypeEmbedding)
	if err != nil {
		return nil, err
	}
	if apiErr := provider.ValidateEmbeddingsRequest(&provider.EmbeddingsRequest{Texts: texts}); apiErr != nil {
		return nil, apiErr
	}

	out := make(provider.EmbeddingsOutput, len(texts))
	misses := e.lookupCache(ctx, model, texts, out)
	if len(misses) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.concurrency())

	for _, batch := range splitBatches(misses, model.MaxBatchSize) {
		g.Go(func() error {
			batchTexts := make([]string, len(batch))
			for i, idx := range batch {
				batchTexts[i] = texts[idx]
			}

			vecs, err := e.embedBatch(gctx, p, model, batchTexts)
			if err != nil {
				return err
			}
			for i, idx := range batch {
				out[idx] = vecs[i]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.fillCache(ctx, model, texts, misses, out)
	return out, nil
}

// Close releases the transport and cache created by NewFromConfig.
func (e *Engine) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (e *Engine) embedBatch(ctx context.Context, p provider.Provider, model provider.Model, texts []string) (provider.EmbeddingsOutput, error) {
	preq, err := p.PrepareEmbeddings(&provider.EmbeddingsRequest{Texts: texts}, model)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	status, body, err := e.transport.Do(ctx, preq)
	var vecs provider.EmbeddingsOutput
	if err == nil {
		vecs, err = p.ParseEmbeddings(status, body)
	}
	if err == nil && len(vecs) != len(texts) {
		err = api.NewMalformedPayloadError(
			fmt.Sprintf("invalid embeddings data: expected %d vectors, got %d", len(texts), len(vecs)),
			string(body), nil)
	}
	e.record(p.Name(), model, start, observability.StatusLabel(err))

	return vecs, err
}

// lookupCache fills out with cached vectors and returns the indices of
// texts that still need embedding.
func (e *Engine) lookupCache(ctx context.Context, model provider.Model, texts []string, out provider.EmbeddingsOutput) []int {
	misses := make([]int, 0, len(texts))
	for i, text := range texts {
		if e.cache == nil {
			misses = append(misses, i)
			continue
		}
		vec, err := e.cache.Get(ctx, storage.CacheKey(model.ID(), text))
		switch {
		case err == nil:
			observability.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
			out[i] = vec
			continue
		case errors.Is(err, storage.ErrNotFound):
			observability.EmbeddingCacheTotal.WithLabelValues("miss").Inc()
		default:
			observability.EmbeddingCacheTotal.WithLabelValues("error").Inc()
			slog.Warn("embedding cache lookup failed", "model", model.ID(), "error", err.Error())
		}
		misses = append(misses, i)
	}
	return misses
}

func (e *Engine) fillCache(ctx context.Context, model provider.Model, texts []string, indices []int, out provider.EmbeddingsOutput) {
	if e.cache == nil {
		return
	}
	for _, idx := range indices {
		if err := e.cache.Put(ctx, storage.CacheKey(model.ID(), texts[idx]), out[idx]); err != nil {
			slog.Warn("embedding cache store failed", "model", model.ID(), "error", err.Error())
			return
		}
	}
}

// resolve finds the provider and model for modelID, falling back to the
// configured default model and then to the first model of the type.
func (e *Engine) resolve(modelID string, typ provider.ModelType) (provider.Provider, provider.Model, error) {
	if modelID == "" && typ == provider.ModelTypeChat {
		modelID = e.cfg.DefaultModel
	}
	if modelID == "" {
		for _, m := range e.registry.Models() {
			if m.Type == typ {
				modelID = m.ID()
				break
			}
		}
	}
	if modelID == "" {
		return nil, provider.Model{}, api.NewInvalidRequestError("model", fmt.Sprintf("no %s model configured", typ))
	}

	if typ == provider.ModelTypeEmbedding {
		return e.registry.ResolveEmbedding(modelID)
	}
	return e.registry.Resolve(modelID)
}

func (e *Engine) record(providerName string, model provider.Model, start time.Time, status string) {
	observability.ProviderRequestsTotal.WithLabelValues(providerName, model.Name, status).Inc()
	observability.ProviderLatency.WithLabelValues(providerName, model.Name).Observe(time.Since(start).Seconds())
}

// splitBatches splits indices into consecutive batches of at most size
// elements. A size of zero or less yields a single batch.
func splitBatches(indices []int, size int) [][]int {
	if size <= 0 || size >= len(indices) {
		return [][]int{indices}
	}
	batches := make([][]int, 0, (len(indices)+size-1)/size)
	for start := 0; start < len(indices); start += size {
		end := min(start+size, len(indices))
		batches = append(batches, indices[start:end])
	}
	return batches
}

// countingHandler records stream fragment metrics before delegating.
type countingHandler struct {
	next     provider.StreamHandler
	provider string
}

func (c *countingHandler) Text(fragment string) error {
	observability.StreamFragmentsTotal.WithLabelValues(c.provider, "text").Inc()
	return c.next.Text(fragment)
}

func (c *countingHandler) ToolCall(call provider.ToolCall) error {
	observability.StreamFragmentsTotal.WithLabelValues(c.provider, "tool_call").Inc()
	return c.next.ToolCall(call)
}
