package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agenthub/agenthub/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 3, cfg.Escalation.MaxErrors)
	assert.Equal(t, "gpt-4o-mini", cfg.Completion.Model)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9090"
store:
  backend: redis
  ttl: 1h
  redact_keys:
    - password
    - token
redis:
  addr: "redis:6379"
rate_limit:
  window: 30s
  capacity: 10
escalation:
  max_errors: 5
  frustration_keywords: [annoyed, furious]
completion:
  model: gpt-4o
  cache_ttl: 10m
classifier:
  PRODUCT:
    "discount|sale": 1.5
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
	assert.Equal(t, []string{"password", "token"}, cfg.Store.RedactKeys)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 10, cfg.RateLimit.Capacity)
	assert.Equal(t, 5, cfg.Escalation.MaxErrors)
	assert.Equal(t, []string{"annoyed", "furious"}, cfg.Escalation.FrustrationKeywords)
	assert.Equal(t, "gpt-4o", cfg.Completion.Model)
	assert.Equal(t, 10*time.Minute, cfg.Completion.CacheTTL)
	assert.Equal(t, 1.5, cfg.Classifier["PRODUCT"]["discount|sale"])

	// Untouched sections keep their defaults.
	assert.Equal(t, 15, cfg.Escalation.MaxMessages)
	assert.Equal(t, 30*time.Second, cfg.Completion.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AGENTHUB_OPENAI_API_KEY", "sk-test")
	t.Setenv("AGENTHUB_REDIS_ADDR", "override:6379")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Completion.APIKey)
	assert.Equal(t, "override:6379", cfg.Redis.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown backend": "store:\n  backend: cassandra\n",
		"zero capacity":   "rate_limit:\n  capacity: 0\n",
		"negative window": "rate_limit:\n  window: -1s\n",
		"zero max errors": "escalation:\n  max_errors: 0\n",
		"broken yaml":     "store: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
