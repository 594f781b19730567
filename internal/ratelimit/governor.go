// Package ratelimit implements the per-user admission governor: a
// sliding window of request timestamps consulted before any responder
// runs.
package ratelimit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/agenthub/agenthub/internal/logging"
)

// Governor admits or denies turns per user over a rolling window.
// Denial is a throttling signal, never a fault: internal problems
// (including a missing user id) fail open so throughput wins over strict
// enforcement.
type Governor struct {
	window   time.Duration
	capacity int

	mu      sync.Mutex
	windows map[string][]time.Time

	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Governor)

// WithWindow sets the sliding window size.
func WithWindow(window time.Duration) Option {
	return func(g *Governor) {
		g.window = window
	}
}

// WithCapacity sets the max admissions per window.
func WithCapacity(capacity int) Option {
	return func(g *Governor) {
		g.capacity = capacity
	}
}

// WithLogger sets the logger for denial events.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Governor) {
		g.logger = logger
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Governor) {
		g.now = now
	}
}

// NewGovernor creates a governor with the default 60-requests-per-60s
// window.
func NewGovernor(opts ...Option) *Governor {
	g := &Governor{
		window:   time.Minute,
		capacity: 60,
		windows:  make(map[string][]time.Time),
		now:      time.Now,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Admit purges entries older than the window for userID, then admits if
// the remaining count is under capacity, recording the new timestamp.
// An empty userID is always admitted.
func (g *Governor) Admit(userID string) bool {
	if userID == "" {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	cutoff := now.Add(-g.window)

	kept := g.windows[userID][:0]
	for _, ts := range g.windows[userID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= g.capacity {
		g.windows[userID] = kept
		g.logger.Warn("rate limit exceeded", "user_id", userID, "window", g.window)
		return false
	}

	g.windows[userID] = append(kept, now)
	return true
}

// Prune drops users whose entire window has lapsed. Admit already purges
// per user, so this only matters for memory hygiene at scale.
func (g *Governor) Prune() {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.now().Add(-g.window)
	for id, window := range g.windows {
		if len(window) == 0 || !window[len(window)-1].After(cutoff) {
			delete(g.windows, id)
		}
	}
}

// StartCompaction runs Prune on the given interval until stop is closed.
func (g *Governor) StartCompaction(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				g.Prune()
			}
		}
	}()
}
