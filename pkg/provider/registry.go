package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cogpy/aicogchat/pkg/api"
)

// Settings is the per-client configuration handed to a Factory.
type Settings struct {
	Name    string
	APIBase string
	APIKey  string
	Models  []Model
}

// Factory creates a Provider for one configured client.
type Factory func(s Settings) (Provider, error)

type client struct {
	provider Provider
	models   []Model
}

// Registry is the dispatch table from client type to Factory and from
// client name to the configured Provider and its models.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	clients   map[string]*client
	order     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		clients:   make(map[string]*client),
	}
}

// RegisterFactory installs the factory for a client type.
func (r *Registry) RegisterFactory(clientType string, f Factory) {
	r.mu.Lock()
	r.factories[clientType] = f
	r.mu.Unlock()
}

// HasFactory reports whether a factory is installed for clientType.
func (r *Registry) HasFactory(clientType string) bool {
	r.mu.RLock()
	_, ok := r.factories[clientType]
	r.mu.RUnlock()
	return ok
}

// AddClient creates a Provider with the factory for clientType and
// registers it under s.Name.
func (r *Registry) AddClient(clientType string, s Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.factories[clientType]
	if !ok {
		return fmt.Errorf("unknown client type %q", clientType)
	}
	if s.Name == "" {
		return fmt.Errorf("client of type %q has no name", clientType)
	}
	if _, exists := r.clients[s.Name]; exists {
		return fmt.Errorf("client %q already registered", s.Name)
	}

	p, err := f(s)
	if err != nil {
		return fmt.Errorf("creating client %q: %w", s.Name, err)
	}

	models := make([]Model, len(s.Models))
	for i, m := range s.Models {
		m.Client = s.Name
		if m.Type == "" {
			m.Type = ModelTypeChat
		}
		models[i] = m
	}

	r.clients[s.Name] = &client{provider: p, models: models}
	r.order = append(r.order, s.Name)
	return nil
}

// Resolve finds the Provider and chat Model for a model id. The id is
// either "client:model" or a bare client name, which selects the client's
// first chat model.
func (r *Registry) Resolve(modelID string) (Provider, Model, error) {
	return r.resolve(modelID, ModelTypeChat)
}

// ResolveEmbedding is Resolve for embedding models.
func (r *Registry) ResolveEmbedding(modelID string) (Provider, Model, error) {
	return r.resolve(modelID, ModelTypeEmbedding)
}

func (r *Registry) resolve(modelID string, typ ModelType) (Provider, Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clientName, modelName, _ := strings.Cut(modelID, ":")
	c, ok := r.clients[clientName]
	if !ok {
		return nil, Model{}, api.NewNotFoundError(fmt.Sprintf("unknown client %q", clientName))
	}

	for _, m := range c.models {
		if m.Type != typ {
			continue
		}
		if modelName == "" || m.Name == modelName {
			return c.provider, m, nil
		}
	}

	// Backends may serve models that are not listed in the config.
	if modelName != "" {
		return c.provider, Model{Client: clientName, Name: modelName, Type: typ}, nil
	}
	return nil, Model{}, api.NewNotFoundError(fmt.Sprintf("client %q has no %s model", clientName, typ))
}

// Models lists all configured models, ordered by client registration and
// then by configuration order.
func (r *Registry) Models() []Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Model
	for _, name := range r.order {
		out = append(out, r.clients[name].models...)
	}
	return out
}

// ClientTypes returns the sorted list of installed client types.
func (r *Registry) ClientTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
