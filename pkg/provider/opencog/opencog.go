package opencog

import (
	"context"
	"io"
	"strings"

	"github.com/cogpy/aicogchat/pkg/provider"
)

// OpenCogProvider implements provider.Provider for OpenCog servers.
type OpenCogProvider struct {
	cfg Config
}

// Ensure OpenCogProvider implements provider.Provider at compile time.
var _ provider.Provider = (*OpenCogProvider)(nil)

// New creates a provider. An empty APIBase falls back to DefaultAPIBase and
// an empty Name to ClientType.
func New(cfg Config) (*OpenCogProvider, error) {
	if cfg.Name == "" {
		cfg.Name = ClientType
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")
	return &OpenCogProvider{cfg: cfg}, nil
}

// Register installs the OpenCog factory in reg.
func Register(reg *provider.Registry) {
	reg.RegisterFactory(ClientType, func(s provider.Settings) (provider.Provider, error) {
		return New(Config{
			Name:    s.Name,
			APIBase: s.APIBase,
			APIKey:  s.APIKey,
		})
	})
}

// Name returns the client instance name.
func (p *OpenCogProvider) Name() string {
	return p.cfg.Name
}

// APIBase returns the normalized server URL.
func (p *OpenCogProvider) APIBase() string {
	return p.cfg.APIBase
}

// PrepareChat builds the request for /chat/completions.
func (p *OpenCogProvider) PrepareChat(req *provider.ChatRequest, model provider.Model) (*provider.Request, error) {
	body, err := BuildChatRequest(req, model)
	if err != nil {
		return nil, err
	}
	return p.newRequest("/chat/completions", body), nil
}

// PrepareEmbeddings builds the request for /embeddings.
func (p *OpenCogProvider) PrepareEmbeddings(req *provider.EmbeddingsRequest, model provider.Model) (*provider.Request, error) {
	body, err := BuildEmbeddingsRequest(req, model)
	if err != nil {
		return nil, err
	}
	return p.newRequest("/embeddings", body), nil
}

// ParseChat implements provider.Provider.
func (p *OpenCogProvider) ParseChat(status int, body []byte) (*provider.ChatCompletionsOutput, error) {
	return ExtractChatCompletions(status, body)
}

// ParseEmbeddings implements provider.Provider.
func (p *OpenCogProvider) ParseEmbeddings(status int, body []byte) (provider.EmbeddingsOutput, error) {
	return ExtractEmbeddings(status, body)
}

// DecodeStream implements provider.Provider.
func (p *OpenCogProvider) DecodeStream(ctx context.Context, status int, body io.Reader, h provider.StreamHandler) (provider.StreamStatus, error) {
	return DecodeStream(ctx, status, body, h)
}

func (p *OpenCogProvider) newRequest(path string, body []byte) *provider.Request {
	req := &provider.Request{
		URL:  p.cfg.APIBase + path,
		Body: body,
	}
	if p.cfg.APIKey != "" {
		req.SetBearerAuth(p.cfg.APIKey)
	}
	return req
}
