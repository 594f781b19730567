// Package responder implements the dialog graph's node behaviors: the
// router, the support specialists, the booking desks, and the human
// proxy. Each responder consumes a conversation state and returns a
// partial update with its answer and a next-hop proposal.
package responder

import (
	"context"
	"log/slog"
	"time"

	"github.com/agenthub/agenthub/internal/logging"
	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/agenthub/agenthub/pkg/observability"
	"github.com/agenthub/agenthub/pkg/ports"
)

// Responder is the single capability every graph node implements.
type Responder interface {
	// Node returns the graph node this responder serves.
	Node() string

	// Process consumes the state and returns the partial update for
	// this turn. Completion-service failures are recovered inside
	// Process (apology message plus reroute); an error return is
	// reserved for faults the executor itself must handle.
	Process(ctx context.Context, state *domain.ConversationState) (*domain.PartialUpdate, error)
}

// base carries the dependencies shared by all concrete responders.
type base struct {
	node       string
	completion ports.CompletionService
	metrics    *observability.Metrics
	logger     *slog.Logger
}

func newBase(node string, completion ports.CompletionService, opts ...BaseOption) base {
	b := base{
		node:       node,
		completion: completion,
		metrics:    observability.NewNop(),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// BaseOption configures a responder's shared dependencies.
type BaseOption func(*base)

// WithLogger sets the responder logger.
func WithLogger(logger *slog.Logger) BaseOption {
	return func(b *base) {
		b.logger = logger
	}
}

// WithMetrics sets the metric sink for completion calls.
func WithMetrics(m *observability.Metrics) BaseOption {
	return func(b *base) {
		b.metrics = m
	}
}

func (b *base) Node() string { return b.node }

// complete calls the completion service and records the outcome. The
// empty-string-with-nil-error case never happens: adapters report empty
// completions as failures.
func (b *base) complete(ctx context.Context, messages []domain.Message, systemOverride string) (string, error) {
	start := time.Now()
	text, err := b.completion.Complete(ctx, messages, systemOverride)
	b.metrics.ObserveCompletion(b.node, time.Since(start), err)
	if err != nil {
		b.logger.Warn("completion call failed", "node", b.node, "err", err)
	}
	return text, err
}

// failure builds the local recovery update used by every responder when
// the completion service is unavailable: one apology message, a forced
// reroute, and an incremented error count.
func (b *base) failure(state *domain.ConversationState, fallback, apology, cause string) *domain.PartialUpdate {
	next := state.Context.Clone()
	next.ErrorCount++
	return &domain.PartialUpdate{
		Messages:       []domain.Message{domain.NewMessage(domain.RoleAssistant, apology)},
		Next:           fallback,
		RequiresAction: true,
		ActionType:     domain.ActionErrorRecovery,
		Context:        &next,
		Error:          cause,
	}
}
