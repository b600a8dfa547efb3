package provider

// ModelType distinguishes chat models from embedding models.
type ModelType string

const (
	ModelTypeChat      ModelType = "chat"
	ModelTypeEmbedding ModelType = "embedding"
)

// Model describes a model served by a client.
type Model struct {
	// Client is the name of the client serving this model.
	Client string

	// Name is the model name used in model ids ("client:name").
	Name string

	// WireName overrides the name sent to the backend when set.
	WireName string

	Type ModelType

	// MaxOutputTokens is the backend's output limit (0 = unknown).
	MaxOutputTokens int

	// RequireMaxTokens makes requests carry max_tokens = MaxOutputTokens.
	RequireMaxTokens bool

	// MaxBatchSize caps the number of texts per embeddings request (0 = unlimited).
	MaxBatchSize int
}

// ID returns the fully qualified model id, "client:name".
func (m Model) ID() string {
	return m.Client + ":" + m.Name
}

// RealName returns the name to send on the wire.
func (m Model) RealName() string {
	if m.WireName != "" {
		return m.WireName
	}
	return m.Name
}

// MaxTokensParam returns the max_tokens value a request must carry, if the
// model declares a max-tokens policy.
func (m Model) MaxTokensParam() (int, bool) {
	if m.RequireMaxTokens && m.MaxOutputTokens > 0 {
		return m.MaxOutputTokens, true
	}
	return 0, false
}
