package model

import (
	"time"
)

// Config holds all runtime configuration. Rule-sets, entity terms, and
// lexicons are compiled into the engine and are deliberately absent here:
// extending them is a release, not a config change.
type Config struct {
	Engine      EngineConfig      `yaml:"engine" json:"engine" mapstructure:"engine"`
	LLM         LLMConfig         `yaml:"llm" json:"llm" mapstructure:"llm"`
	Cache       CacheConfig       `yaml:"cache" json:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency" mapstructure:"concurrency"`
	Feed        FeedConfig        `yaml:"feed" json:"feed" mapstructure:"feed"`
	Server      ServerConfig      `yaml:"server" json:"server" mapstructure:"server"`
	Output      OutputConfig      `yaml:"output" json:"output" mapstructure:"output"`
}

// EngineConfig controls the deterministic analysis core.
type EngineConfig struct {
	// Anonymize masks PII before analysis. MaxInputChars rejects longer
	// inputs outright, never truncates. LocalMode disables the enhancement
	// port entirely.
	Anonymize     bool       `yaml:"anonymize" json:"anonymize" mapstructure:"anonymize"`
	LocalMode     bool       `yaml:"local_mode" json:"local_mode" mapstructure:"local_mode"`
	MaxInputChars int        `yaml:"max_input_chars" json:"max_input_chars" mapstructure:"max_input_chars"`
	Thresholds    Thresholds `yaml:"thresholds" json:"thresholds" mapstructure:"thresholds"`
}

// Thresholds maps the numeric score to a severity level. They must be
// strictly descending; validation failures are fatal at startup, never a
// runtime fallback.
type Thresholds struct {
	Critical int `yaml:"critical" json:"critical" mapstructure:"critical"`
	High     int `yaml:"high" json:"high" mapstructure:"high"`
	Medium   int `yaml:"medium" json:"medium" mapstructure:"medium"`
	Low      int `yaml:"low" json:"low" mapstructure:"low"`
}

// Level maps a clamped score to its severity band.
func (t Thresholds) Level(value int) RiskLevel {
	switch {
	case value >= t.Critical:
		return LevelCritical
	case value >= t.High:
		return LevelHigh
	case value >= t.Medium:
		return LevelMedium
	case value >= t.Low:
		return LevelLow
	default:
		return LevelSafe
	}
}

// Validate checks the threshold ordering invariant.
func (t Thresholds) Validate() error {
	if t.Critical > 100 {
		return &ConfigError{Field: "engine.thresholds.critical", Reason: "must not exceed 100"}
	}
	if t.Low <= 0 {
		return &ConfigError{Field: "engine.thresholds.low", Reason: "must be positive"}
	}
	if !(t.Critical > t.High && t.High > t.Medium && t.Medium > t.Low) {
		return &ConfigError{
			Field:  "engine.thresholds",
			Reason: "must be strictly descending (critical > high > medium > low)",
		}
	}
	return nil
}

// LLMConfig configures the optional enhancement provider. An empty provider
// or missing credential means enhancement is unavailable; the engine then
// proceeds locally.
type LLMConfig struct {
	// Provider is "openai", "anthropic", "ollama", or "" for none. The
	// API key comes from the environment only, never from a config file.
	// Timeout is in seconds and bounds the enhancement call.
	Provider   string `yaml:"provider" json:"provider" mapstructure:"provider"`
	Model      string `yaml:"model" json:"model" mapstructure:"model"`
	APIKey     string `yaml:"-" json:"-" mapstructure:"-"`
	BaseURL    string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
	MaxTokens  int    `yaml:"max_tokens" json:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy" json:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" json:"https_proxy" mapstructure:"https_proxy"`
}

// CacheConfig controls the fingerprint-keyed result cache used by the HTTP
// server. The engine itself never caches: deduplication is a caller concern.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" json:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" json:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// ConcurrencyConfig controls batch processing.
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" json:"workers" mapstructure:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size" mapstructure:"burst_size"`
}

// FeedConfig controls the simulated live feed.
type FeedConfig struct {
	Interval time.Duration `yaml:"interval" json:"interval" mapstructure:"interval"` // pacing between items
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" json:"port" mapstructure:"port"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose" mapstructure:"verbose"`
	JSON    bool `yaml:"json" json:"json" mapstructure:"json"` // emit raw JSON instead of the summary view
}

// DefaultConfig returns the built-in defaults. Enhancement is disabled until
// a provider is configured and local mode is switched off.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Anonymize:     true,
			LocalMode:     true,
			MaxInputChars: 10000,
			Thresholds: Thresholds{
				Critical: 75,
				High:     55,
				Medium:   30,
				Low:      10,
			},
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           4,
			RequestsPerSecond: 10,
			BurstSize:         5,
		},
		Feed: FeedConfig{
			Interval: 3 * time.Second,
		},
		Server: ServerConfig{
			Port: 8632,
		},
		Output: OutputConfig{},
	}
}

// Validate checks structural invariants. It is called once at startup;
// per-call code may assume a valid config.
func (c *Config) Validate() error {
	if err := c.Engine.Thresholds.Validate(); err != nil {
		return err
	}
	if c.Engine.MaxInputChars <= 0 {
		return &ConfigError{Field: "engine.max_input_chars", Reason: "must be positive"}
	}
	if c.Concurrency.Workers <= 0 {
		return &ConfigError{Field: "concurrency.workers", Reason: "must be positive"}
	}
	if c.Concurrency.RequestsPerSecond <= 0 {
		return &ConfigError{Field: "concurrency.requests_per_second", Reason: "must be positive"}
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return &ConfigError{Field: "cache.ttl", Reason: "must be positive when cache is enabled"}
	}
	if c.Feed.Interval <= 0 {
		return &ConfigError{Field: "feed.interval", Reason: "must be positive"}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Reason: "must be in 1-65535"}
	}
	if c.LLM.Timeout <= 0 {
		return &ConfigError{Field: "llm.timeout", Reason: "must be positive"}
	}
	return nil
}
