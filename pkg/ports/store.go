package ports

import (
	"context"

	"github.com/agenthub/agenthub/pkg/domain"
)

// StateStore persists conversation state between turns. Implementations
// may expire entries via TTL; a missing or expired session surfaces as
// domain.ErrSessionNotFound.
type StateStore interface {
	// Save persists the state for a user.
	Save(ctx context.Context, userID string, state *domain.ConversationState) error

	// Load retrieves the state for a user.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, userID string) (*domain.ConversationState, error)

	// Delete removes the state for a user.
	Delete(ctx context.Context, userID string) error

	// List returns the user IDs with active sessions.
	List(ctx context.Context) ([]string, error)
}
