package config

import (
	"errors"
	"fmt"
	"strings"
)

// KnownClientTypes lists the client types Validate accepts.
var KnownClientTypes = []string{"opencog"}

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Clients) == 0 {
		errs = append(errs, fmt.Errorf("at least one client is required"))
	}

	names := make(map[string]bool)
	for i, cl := range c.Clients {
		if !isKnownClientType(cl.Type) {
			errs = append(errs, fmt.Errorf("clients[%d].type must be one of %s, got %q",
				i, strings.Join(KnownClientTypes, ", "), cl.Type))
		}
		if cl.Name == "" {
			errs = append(errs, fmt.Errorf("clients[%d].name is required", i))
		} else if strings.Contains(cl.Name, ":") {
			errs = append(errs, fmt.Errorf("clients[%d].name must not contain ':', got %q", i, cl.Name))
		} else if names[cl.Name] {
			errs = append(errs, fmt.Errorf("clients[%d].name %q is duplicated", i, cl.Name))
		}
		names[cl.Name] = true

		for j, m := range cl.Models {
			if m.Name == "" {
				errs = append(errs, fmt.Errorf("clients[%d].models[%d].name is required", i, j))
			}
			switch m.Type {
			case "", "chat", "embedding":
				// valid
			default:
				errs = append(errs, fmt.Errorf("clients[%d].models[%d].type must be \"chat\" or \"embedding\", got %q", i, j, m.Type))
			}
			if m.MaxOutputTokens < 0 || m.MaxBatchSize < 0 {
				errs = append(errs, fmt.Errorf("clients[%d].models[%d]: limits must not be negative", i, j))
			}
			if m.RequireMaxTokens && m.MaxOutputTokens == 0 {
				errs = append(errs, fmt.Errorf("clients[%d].models[%d].max_output_tokens is required when require_max_tokens is set", i, j))
			}
		}
	}

	switch c.Storage.Type {
	case "none", "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"none\", \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	if c.Storage.Type == "memory" && c.Storage.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("storage.max_size must be >= 0, got %d", c.Storage.MaxSize))
	}

	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	if c.HTTP.Timeout < 0 || c.HTTP.ConnectTimeout < 0 {
		errs = append(errs, fmt.Errorf("http timeouts must not be negative"))
	}

	switch c.Log.Format {
	case "", "text", "json":
		// valid
	default:
		errs = append(errs, fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

func isKnownClientType(t string) bool {
	for _, k := range KnownClientTypes {
		if k == t {
			return true
		}
	}
	return false
}
