// Package config provides unified configuration for aicogchat.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (AICOGCHAT_ prefix and per-client
//     <NAME>_API_KEY / <NAME>_API_BASE)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for aicogchat.
type Config struct {
	Log          LogConfig      `yaml:"log"`
	HTTP         HTTPConfig     `yaml:"http"`
	Clients      []ClientConfig `yaml:"clients"`
	DefaultModel string         `yaml:"default_model"`
	Storage      StorageConfig  `yaml:"storage"`
	Metrics      MetricsConfig  `yaml:"metrics"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // DEBUG, INFO, WARN, ERROR, TRACE; default: INFO
	Debug  string `yaml:"debug"`  // comma-separated debug categories or "all"
	Format string `yaml:"format"` // "text" or "json", default: "text"
}

// HTTPConfig holds transport settings shared by all clients.
type HTTPConfig struct {
	Timeout        time.Duration `yaml:"timeout"`         // default: 120s
	ConnectTimeout time.Duration `yaml:"connect_timeout"` // default: 10s
	Proxy          string        `yaml:"proxy"`           // optional
}

// ClientConfig describes one configured backend client.
type ClientConfig struct {
	Type       string        `yaml:"type"` // registry key, e.g. "opencog"
	Name       string        `yaml:"name"` // model id prefix; defaults to type
	APIBase    string        `yaml:"api_base"`
	APIKey     string        `yaml:"api_key"`
	APIKeyFile string        `yaml:"api_key_file"` // _file variant for api_key
	Models     []ModelConfig `yaml:"models"`
}

// ModelConfig describes one model served by a client.
type ModelConfig struct {
	Name             string `yaml:"name"`
	RealName         string `yaml:"real_name"` // name sent on the wire, if different
	Type             string `yaml:"type"`      // "chat" or "embedding", default: "chat"
	MaxOutputTokens  int    `yaml:"max_output_tokens"`
	RequireMaxTokens bool   `yaml:"require_max_tokens"`
	MaxBatchSize     int    `yaml:"max_batch_size"`
}

// StorageConfig holds embedding cache settings.
type StorageConfig struct {
	Type     string         `yaml:"type"`     // "none", "memory" or "postgres", default: "memory"
	MaxSize  int            `yaml:"max_size"` // LRU size for memory, rows kept at startup for postgres; default: 10000
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 10
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: true
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	// Textfile, when set, receives the metrics in text exposition format
	// when a command finishes (for the node_exporter textfile collector).
	Textfile string `yaml:"textfile"`
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Log: LogConfig{
			Level:  "INFO",
			Format: "text",
		},
		HTTP: HTTPConfig{
			Timeout:        120 * time.Second,
			ConnectTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Type:    "memory",
			MaxSize: 10000,
			Postgres: PostgresConfig{
				MaxConns:       10,
				MigrateOnStart: true,
			},
		},
	}
}

// DefaultClient is the client used when the configuration names none: a
// local OpenCog server with one chat and one embedding model.
func DefaultClient() ClientConfig {
	return ClientConfig{
		Type: "opencog",
		Name: "opencog",
		Models: []ModelConfig{
			{Name: "opencog-chat", Type: "chat"},
			{Name: "opencog-embed", Type: "embedding"},
		},
	}
}

// Client returns the client with the given name.
func (c *Config) Client(name string) (*ClientConfig, bool) {
	for i := range c.Clients {
		if c.Clients[i].Name == name {
			return &c.Clients[i], true
		}
	}
	return nil, false
}
