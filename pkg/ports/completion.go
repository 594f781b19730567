package ports

import (
	"context"

	"github.com/agenthub/agenthub/pkg/domain"
)

// CompletionService turns a role-tagged message history into generated
// text. The optional systemOverride replaces the adapter's default
// instruction prompt for this call.
//
// Failures (timeout, quota, malformed output) surface as errors wrapping
// domain.ErrCompletionUnavailable. No retry policy is implied here; if an
// adapter retries, that is its own concern.
type CompletionService interface {
	Complete(ctx context.Context, messages []domain.Message, systemOverride string) (string, error)
}
