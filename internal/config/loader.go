package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "DISCOVERY_"
	envConfigFile = "DISCOVERY_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DISCOVERY_CONFIG is set
//  3. env (prefix DISCOVERY_)
func Load(_ context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like DISCOVERY_CACHE_TTL_SECONDS -> cache_ttl_seconds (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxResultLimit <= 0:
		return fmt.Errorf("%w: max_result_limit must be positive", ErrInvalidConfig)
	case c.DefaultLimit <= 0 || c.DefaultLimit > c.MaxResultLimit:
		return fmt.Errorf("%w: default_limit must be within 1..max_result_limit", ErrInvalidConfig)
	case c.CacheTTLSeconds <= 0:
		return fmt.Errorf("%w: cache_ttl_seconds must be positive", ErrInvalidConfig)
	}
	switch c.ProjectsSource {
	case SourceFile, SourcePostgres, SourceMemory:
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownSource, c.ProjectsSource)
	}
	switch c.PersistenceBackend {
	case BackendBadger, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownBackend, c.PersistenceBackend)
	}
	if c.ProjectsSource == SourcePostgres && c.PostgresDSN == "" {
		return fmt.Errorf("%w: postgres_dsn is required for the postgres source", ErrInvalidConfig)
	}
	return nil
}

// Project sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceMemory   = "memory"
)

// Persistence backends.
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)
