package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/agenthub/agenthub/internal/logging"
	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/agenthub/agenthub/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// CompletionCache decorates a CompletionService with Redis memoization.
// Identical prompt histories reuse the cached text until the TTL lapses.
// Cache faults fail open: a broken Redis never blocks a turn, the call
// just goes through to the underlying service.
type CompletionCache struct {
	next   ports.CompletionService
	client *backend.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

type CacheOption func(*CompletionCache)

// WithCacheTTL sets the expiration for cached completions.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *CompletionCache) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets the logger for cache faults.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *CompletionCache) {
		c.logger = logger
	}
}

// NewCompletionCache wraps next with a Redis-backed response cache.
func NewCompletionCache(client *backend.Client, next ports.CompletionService, opts ...CacheOption) *CompletionCache {
	c := &CompletionCache{
		next:   next,
		client: client,
		prefix: "agenthub:completion:",
		ttl:    time.Hour,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.CompletionService = (*CompletionCache)(nil)

// Complete returns the cached text for this exact prompt if present,
// otherwise delegates and stores the result.
func (c *CompletionCache) Complete(ctx context.Context, messages []domain.Message, systemOverride string) (string, error) {
	key := c.prefix + promptDigest(messages, systemOverride)

	if val, err := c.client.Get(ctx, key).Result(); err == nil {
		return val, nil
	} else if err != backend.Nil {
		c.logger.Warn("completion cache read failed", "err", err)
	}

	text, err := c.next.Complete(ctx, messages, systemOverride)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, text, c.ttl).Err(); err != nil {
		c.logger.Warn("completion cache write failed", "err", err)
	}
	return text, nil
}

// promptDigest hashes the full role-tagged history plus the system
// override. Timestamps are excluded so retries of the same turn hit.
func promptDigest(messages []domain.Message, systemOverride string) string {
	h := sha256.New()
	h.Write([]byte(systemOverride))
	for _, m := range messages {
		h.Write([]byte{0})
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
	}
	return hex.EncodeToString(h.Sum(nil))
}
