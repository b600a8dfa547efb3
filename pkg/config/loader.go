package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cogpy/aicogchat/pkg/debug"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, AICOGCHAT_CONFIG env, ./config.yaml,
//     $XDG_CONFIG_HOME/aicogchat/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
//
// When no client is configured, DefaultClient is used.
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
		debug.Log("config", "loaded config file", "path", filePath)
	}

	if len(cfg.Clients) == 0 {
		cfg.Clients = []ClientConfig{DefaultClient()}
	}
	for i := range cfg.Clients {
		if cfg.Clients[i].Name == "" {
			cfg.Clients[i].Name = cfg.Clients[i].Type
		}
	}

	applyEnvOverrides(&cfg)

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. AICOGCHAT_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. $XDG_CONFIG_HOME/aicogchat/config.yaml (or ~/.config/aicogchat/config.yaml)
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("AICOGCHAT_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{"config.yaml"}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "aicogchat", "config.yaml"))
	} else if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "aicogchat", "config.yaml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AICOGCHAT_MODEL"); v != "" {
		cfg.DefaultModel = v
	}
	if v := os.Getenv("AICOGCHAT_STORAGE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("AICOGCHAT_STORAGE_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			cfg.Storage.MaxSize = size
		}
	}
	if v := os.Getenv("AICOGCHAT_PROXY"); v != "" {
		cfg.HTTP.Proxy = v
	}

	// Per-client credentials, e.g. OPENCOG_API_KEY for a client named "opencog".
	for i := range cfg.Clients {
		c := &cfg.Clients[i]
		prefix := EnvPrefix(c.Name)
		if v := os.Getenv(prefix + "_API_KEY"); v != "" {
			c.APIKey = v
		}
		if v := os.Getenv(prefix + "_API_BASE"); v != "" {
			c.APIBase = v
		}
	}
}

// EnvPrefix returns the environment variable prefix for a client name:
// upper-cased, with '-' and '.' replaced by '_'.
func EnvPrefix(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// clients[*].api_key_file -> clients[*].api_key
	for i := range cfg.Clients {
		if cfg.Clients[i].APIKeyFile != "" && cfg.Clients[i].APIKey == "" {
			val, err := readSecretFile(cfg.Clients[i].APIKeyFile)
			if err != nil {
				return fmt.Errorf("clients[%d].api_key_file: %w", i, err)
			}
			cfg.Clients[i].APIKey = val
		}
	}

	// storage.postgres.dsn_file -> storage.postgres.dsn
	if cfg.Storage.Postgres.DSNFile != "" && cfg.Storage.Postgres.DSN == "" {
		val, err := readSecretFile(cfg.Storage.Postgres.DSNFile)
		if err != nil {
			return fmt.Errorf("storage.postgres.dsn_file: %w", err)
		}
		cfg.Storage.Postgres.DSN = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
