package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/agenthub/agenthub/pkg/ports"
)

// DefaultHistoryLimit bounds how many snapshots are kept per user.
const DefaultHistoryLimit = 10

// Snapshot is one saved state, timestamped at save time.
type Snapshot struct {
	Taken time.Time                 `json:"taken"`
	State *domain.ConversationState `json:"state"`
}

// History decorates a StateStore, recording a bounded trail of state
// snapshots per user on every save. The trail is in-memory only: it
// serves inspection and debugging, not durability, and disappears with
// the process.
type History struct {
	next  ports.StateStore
	limit int
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string][]Snapshot
}

// NewHistory wraps next with snapshot recording. limit <= 0 uses
// DefaultHistoryLimit.
func NewHistory(next ports.StateStore, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{
		next:    next,
		limit:   limit,
		now:     time.Now,
		entries: make(map[string][]Snapshot),
	}
}

// Save records a snapshot, then delegates. A failed delegate save still
// keeps the snapshot; the trail reflects what the engine produced, not
// what the backend accepted.
func (h *History) Save(ctx context.Context, userID string, state *domain.ConversationState) error {
	snap := Snapshot{Taken: h.now(), State: state.Clone()}

	h.mu.Lock()
	trail := append(h.entries[userID], snap)
	if len(trail) > h.limit {
		trail = trail[len(trail)-h.limit:]
	}
	h.entries[userID] = trail
	h.mu.Unlock()

	return h.next.Save(ctx, userID, state)
}

func (h *History) Load(ctx context.Context, userID string) (*domain.ConversationState, error) {
	return h.next.Load(ctx, userID)
}

// Delete drops both the stored state and the snapshot trail.
func (h *History) Delete(ctx context.Context, userID string) error {
	h.mu.Lock()
	delete(h.entries, userID)
	h.mu.Unlock()
	return h.next.Delete(ctx, userID)
}

func (h *History) List(ctx context.Context) ([]string, error) {
	return h.next.List(ctx)
}

// Snapshots returns the recorded trail for a user, oldest first. The
// returned slice is a copy; snapshots share no state with the engine.
func (h *History) Snapshots(userID string) []Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	trail := h.entries[userID]
	out := make([]Snapshot, len(trail))
	copy(out, trail)
	return out
}
