// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New().
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DefaultLimit is used when a ranking request carries no limit.
	DefaultLimit int `koanf:"default_limit"`
	// MaxResultLimit caps GET /trending?limit and GET /recommendations?limit.
	MaxResultLimit int `koanf:"max_result_limit"`
	// DefaultMode is the weight profile active at startup.
	DefaultMode string `koanf:"default_mode"`
	// ScoringParallelism bounds the goroutines used to score one collection.
	ScoringParallelism int `koanf:"scoring_parallelism"`

	// CacheTTLSeconds is how long a computed ranking stays valid.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`
	// SweepIntervalSeconds is the period of the cache invalidation sweeper.
	SweepIntervalSeconds int `koanf:"sweep_interval_seconds"`

	// SessionID keys the interaction record in the persistence backend.
	SessionID string `koanf:"session_id"`
	// PersistIntervalSeconds is the period of the interval save.
	PersistIntervalSeconds int `koanf:"persist_interval_seconds"`
	// PersistQueueSize bounds the pending snapshot queue.
	PersistQueueSize int `koanf:"persist_queue_size"`
	// PersistenceBackend is one of badger, redis, memory.
	PersistenceBackend string `koanf:"persistence_backend"`
	BadgerPath         string `koanf:"badger_path"`
	RedisAddr          string `koanf:"redis_addr"`
	RedisPassword      string `koanf:"redis_password"`
	RedisDB            int    `koanf:"redis_db"`

	// DedupeSize sets how many interaction event ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// ProjectsSource is one of file, postgres, memory.
	ProjectsSource string `koanf:"projects_source"`
	ProjectsFile   string `koanf:"projects_file"`
	PostgresDSN    string `koanf:"postgres_dsn"`

	// BreakerMaxFailures opens the supplier circuit after this many consecutive failures.
	BreakerMaxFailures int `koanf:"breaker_max_failures"`
	// BreakerTimeoutSeconds is how long the circuit stays open.
	BreakerTimeoutSeconds int `koanf:"breaker_timeout_seconds"`

	// GitHubEnrich turns on repository metadata enrichment.
	GitHubEnrich          bool    `koanf:"github_enrich"`
	GitHubToken           string  `koanf:"github_token"`
	GitHubRatePerSecond   float64 `koanf:"github_rate_per_second"`
	GitHubCacheTTLSeconds int     `koanf:"github_cache_ttl_seconds"`
	GitHubBaseURL         string  `koanf:"github_base_url"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		DefaultLimit:           10,
		MaxResultLimit:         100,
		DefaultMode:            "balanced",
		ScoringParallelism:     4,
		CacheTTLSeconds:        300,
		SweepIntervalSeconds:   300,
		SessionID:              "local",
		PersistIntervalSeconds: 30,
		PersistQueueSize:       64,
		PersistenceBackend:     "memory",
		BadgerPath:             "data/interactions",
		RedisAddr:              "localhost:6379",
		DedupeSize:             10_000,
		ProjectsSource:         "file",
		ProjectsFile:           "projects.json",
		BreakerMaxFailures:     5,
		BreakerTimeoutSeconds:  30,
		GitHubRatePerSecond:    1,
		GitHubCacheTTLSeconds:  3600,
	}
}
