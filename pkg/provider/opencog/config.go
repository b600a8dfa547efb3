package opencog

// ClientType is the client type under which the adapter registers.
const ClientType = "opencog"

// DefaultAPIBase is used when no API base is configured.
const DefaultAPIBase = "http://localhost:5000/v1"

// Config holds configuration for the OpenCog adapter.
type Config struct {
	// Name is the client instance name. Defaults to "opencog".
	Name string

	// APIBase is the server URL including the version prefix
	// (e.g., "http://localhost:5000/v1").
	APIBase string

	// APIKey is sent as a bearer token when set (optional).
	APIKey string
}

// DefaultConfig returns a Config pointing at the local default server.
func DefaultConfig() Config {
	return Config{
		Name:    ClientType,
		APIBase: DefaultAPIBase,
	}
}
