package provider

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cogpy/aicogchat/pkg/api"
)

// fakeProvider is a minimal Provider used to exercise the registry.
type fakeProvider struct {
	name string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) PrepareChat(req *ChatRequest, model Model) (*Request, error) {
	return &Request{URL: "http://fake/chat"}, nil
}

func (p *fakeProvider) PrepareEmbeddings(req *EmbeddingsRequest, model Model) (*Request, error) {
	return &Request{URL: "http://fake/embeddings"}, nil
}

func (p *fakeProvider) ParseChat(status int, body []byte) (*ChatCompletionsOutput, error) {
	return &ChatCompletionsOutput{Text: string(body)}, nil
}

func (p *fakeProvider) ParseEmbeddings(status int, body []byte) (EmbeddingsOutput, error) {
	return nil, nil
}

func (p *fakeProvider) DecodeStream(ctx context.Context, status int, body io.Reader, h StreamHandler) (StreamStatus, error) {
	return StreamCompleted, nil
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	r.RegisterFactory("fake", func(s Settings) (Provider, error) {
		return &fakeProvider{name: s.Name}, nil
	})
	err := r.AddClient("fake", Settings{
		Name: "local",
		Models: []Model{
			{Name: "embedder", Type: ModelTypeEmbedding},
			{Name: "chat-small"},
			{Name: "chat-large", WireName: "large-v2"},
		},
	})
	if err != nil {
		t.Fatalf("AddClient: %v", err)
	}
	return r
}

func TestRegistry_ResolveExplicitModel(t *testing.T) {
	r := newTestRegistry(t)

	p, m, err := r.Resolve("local:chat-large")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Name() != "local" {
		t.Errorf("provider name = %q, want %q", p.Name(), "local")
	}
	if m.RealName() != "large-v2" {
		t.Errorf("RealName = %q, want %q", m.RealName(), "large-v2")
	}
	if m.Client != "local" {
		t.Errorf("Client = %q, want %q", m.Client, "local")
	}
	if m.ID() != "local:chat-large" {
		t.Errorf("ID = %q, want %q", m.ID(), "local:chat-large")
	}
}

func TestRegistry_ResolveBareClientPicksFirstChatModel(t *testing.T) {
	r := newTestRegistry(t)

	_, m, err := r.Resolve("local")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Name != "chat-small" {
		t.Errorf("model = %q, want %q", m.Name, "chat-small")
	}
	if m.Type != ModelTypeChat {
		t.Errorf("type = %q, want chat (default)", m.Type)
	}
}

func TestRegistry_ResolveEmbedding(t *testing.T) {
	r := newTestRegistry(t)

	_, m, err := r.ResolveEmbedding("local")
	if err != nil {
		t.Fatalf("ResolveEmbedding: %v", err)
	}
	if m.Name != "embedder" {
		t.Errorf("model = %q, want %q", m.Name, "embedder")
	}
}

func TestRegistry_ResolveUnlistedModelPassesThrough(t *testing.T) {
	r := newTestRegistry(t)

	_, m, err := r.Resolve("local:something-new")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Name != "something-new" || m.RealName() != "something-new" {
		t.Errorf("unexpected model %+v", m)
	}
}

func TestRegistry_ResolveUnknownClient(t *testing.T) {
	r := newTestRegistry(t)

	_, _, err := r.Resolve("remote:chat")
	if !api.IsType(err, api.ErrorTypeNotFound) {
		t.Fatalf("expected not_found error, got %v", err)
	}
}

func TestRegistry_AddClientErrors(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.AddClient("missing", Settings{Name: "x"}); err == nil {
		t.Error("expected error for unknown client type")
	}
	if err := r.AddClient("fake", Settings{Name: "local"}); err == nil {
		t.Error("expected error for duplicate client name")
	}
	if err := r.AddClient("fake", Settings{}); err == nil {
		t.Error("expected error for empty client name")
	}

	r.RegisterFactory("broken", func(s Settings) (Provider, error) {
		return nil, errors.New("bad settings")
	})
	if err := r.AddClient("broken", Settings{Name: "b"}); err == nil {
		t.Error("expected factory error to propagate")
	}
}

func TestRegistry_ModelsAndTypes(t *testing.T) {
	r := newTestRegistry(t)

	models := r.Models()
	if len(models) != 3 {
		t.Fatalf("expected 3 models, got %d", len(models))
	}
	if models[0].Name != "embedder" || models[2].Name != "chat-large" {
		t.Errorf("models not in configuration order: %+v", models)
	}

	if !r.HasFactory("fake") {
		t.Error("expected fake factory to be installed")
	}
	types := r.ClientTypes()
	if len(types) != 1 || types[0] != "fake" {
		t.Errorf("ClientTypes = %v", types)
	}
}
