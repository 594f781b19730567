// Package config loads the service configuration from YAML, with
// compiled-in defaults and environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration. The zero value is not
// usable; start from Default.
type Config struct {
	HTTP       HTTP       `mapstructure:"http"`
	Log        Log        `mapstructure:"log"`
	Store      Store      `mapstructure:"store"`
	Redis      Redis      `mapstructure:"redis"`
	RateLimit  RateLimit  `mapstructure:"rate_limit"`
	Escalation Escalation `mapstructure:"escalation"`
	Completion Completion `mapstructure:"completion"`

	// Classifier overrides the fallback routing patterns: department →
	// regular expression → weight. Empty uses the compiled-in table.
	Classifier map[string]map[string]float64 `mapstructure:"classifier"`
}

type HTTP struct {
	Addr string `mapstructure:"addr"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

// Store selects and tunes the conversation state backend.
type Store struct {
	// Backend is "redis" or "memory".
	Backend      string        `mapstructure:"backend"`
	TTL          time.Duration `mapstructure:"ttl"`
	HistoryLimit int           `mapstructure:"history_limit"`
	// RedactKeys are patterns for context keys masked before persisting.
	RedactKeys []string `mapstructure:"redact_keys"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimit struct {
	Window   time.Duration `mapstructure:"window"`
	Capacity int           `mapstructure:"capacity"`
}

// Escalation tunes the forced human-handoff policy.
type Escalation struct {
	MaxErrors           int      `mapstructure:"max_errors"`
	MaxMessages         int      `mapstructure:"max_messages"`
	MaxTransfers        int      `mapstructure:"max_transfers"`
	MaxFailedAttempts   int      `mapstructure:"max_failed_attempts"`
	FrustrationKeywords []string `mapstructure:"frustration_keywords"`
	SensitiveKeywords   []string `mapstructure:"sensitive_keywords"`
}

type Completion struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	// CacheTTL > 0 enables the Redis response cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		HTTP:  HTTP{Addr: ":8080"},
		Log:   Log{Level: "info"},
		Store: Store{Backend: "memory", TTL: 24 * time.Hour, HistoryLimit: 10},
		Redis: Redis{Addr: "localhost:6379"},
		RateLimit: RateLimit{
			Window:   time.Minute,
			Capacity: 60,
		},
		Escalation: Escalation{
			MaxErrors:         3,
			MaxMessages:       15,
			MaxTransfers:      5,
			MaxFailedAttempts: 2,
		},
		Completion: Completion{
			BaseURL:     "https://api.openai.com",
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			Timeout:     30 * time.Second,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults. Environment overrides apply last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		// YAML is decoded in two stages so duration strings ("30s",
		// "1h") land in time.Duration fields.
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
			Result:     &cfg,
		})
		if err != nil {
			return Config{}, err
		}
		if err := dec.Decode(raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides secrets and endpoints that shouldn't live in a
// checked-in file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("AGENTHUB_OPENAI_API_KEY"); v != "" {
		cfg.Completion.APIKey = v
	}
	if v := os.Getenv("AGENTHUB_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("AGENTHUB_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("AGENTHUB_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
}

// Validate rejects configurations that would misbehave at runtime.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimit.Window)
	}
	if c.RateLimit.Capacity <= 0 {
		return fmt.Errorf("rate limit capacity must be positive, got %d", c.RateLimit.Capacity)
	}
	if c.Escalation.MaxErrors <= 0 {
		return fmt.Errorf("escalation max errors must be positive, got %d", c.Escalation.MaxErrors)
	}
	if c.Completion.Timeout <= 0 {
		return fmt.Errorf("completion timeout must be positive, got %s", c.Completion.Timeout)
	}
	return nil
}
