// Package runtime drives the dialog graph: one responder step per hop,
// rate admission up front, and the escalation policy applied as a
// global transition guard after every step.
package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agenthub/agenthub/internal/logging"
	"github.com/agenthub/agenthub/internal/ratelimit"
	"github.com/agenthub/agenthub/internal/responder"
	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/agenthub/agenthub/pkg/observability"
)

// defaultMaxHops bounds autonomous chaining within a single turn. The
// router hop produces no user-visible message, so a turn normally runs
// router → specialist and stops; the bound is the safety net against
// routing loops.
const defaultMaxHops = 3

// Executor is the state machine over the closed responder node set.
type Executor struct {
	responders map[string]responder.Responder
	governor   *ratelimit.Governor
	policy     *Policy
	metrics    *observability.Metrics
	logger     *slog.Logger
	maxHops    int
}

// Option configures the Executor.
type Option func(*Executor)

// WithLogger sets the executor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithMetrics sets the metric sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

// WithMaxHops overrides the autonomous chaining budget.
func WithMaxHops(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxHops = n
		}
	}
}

// NewExecutor creates an executor. Responders are registered separately
// so the graph wiring stays visible at the call site.
func NewExecutor(governor *ratelimit.Governor, policy *Policy, opts ...Option) *Executor {
	e := &Executor{
		responders: make(map[string]responder.Responder),
		governor:   governor,
		policy:     policy,
		metrics:    observability.NewNop(),
		logger:     logging.NewNop(),
		maxHops:    defaultMaxHops,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds a responder as the handler for its node.
func (e *Executor) Register(r responder.Responder) {
	e.responders[r.Node()] = r
}

// Turn runs one user turn: a single admission check, then up to maxHops
// chained steps. Chaining continues only while a step produced no
// user-visible answer (the router hop), so the user always gets exactly
// one response per turn.
func (e *Executor) Turn(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error) {
	if !e.governor.Admit(state.Context.UserID) {
		e.metrics.RateLimitDenials.Inc()
		return nil, domain.ErrRateLimited
	}

	current := state
	for hop := 0; hop < e.maxHops; hop++ {
		next, answered, err := e.step(ctx, current)
		if err != nil {
			return nil, err
		}
		current = next
		if answered || current.Terminal() {
			return current, nil
		}
	}
	// Hop budget exhausted without an answer: stop routing and let the
	// next turn resume from wherever the graph landed.
	e.logger.Warn("hop budget exhausted", "user_id", state.Context.UserID, "next", current.Next)
	return current, nil
}

// Step runs exactly one responder step with the full transition rules.
// Exposed for callers that drive the graph hop by hop.
func (e *Executor) Step(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, error) {
	next, _, err := e.step(ctx, state)
	return next, err
}

func (e *Executor) step(ctx context.Context, state *domain.ConversationState) (*domain.ConversationState, bool, error) {
	node := e.normalize(state.Next)
	r, ok := e.responders[node]
	if !ok {
		return nil, false, fmt.Errorf("%w: no responder registered for %s", domain.ErrUnknownNode, node)
	}

	e.metrics.TurnsTotal.WithLabelValues(node).Inc()

	update, err := r.Process(ctx, state)
	if err != nil {
		// Responders recover completion faults themselves; reaching
		// this path means the responder itself misbehaved. Degrade
		// exactly like a completion failure so the turn still answers.
		e.logger.Error("responder failed", "node", node, "err", err)
		update = e.recoveryUpdate(state, node)
	}

	next := state.Apply(update)
	next.Push(node)

	answered := false
	for _, m := range update.Messages {
		if m.Role == domain.RoleAssistant {
			answered = true
		}
	}

	if trigger, escalate := e.policy.ShouldEscalate(next); escalate &&
		node != domain.NodeHumanProxy && next.Next != domain.NodeEnd {
		e.logger.Info("escalation forced", "trigger", trigger, "user_id", next.Context.UserID)
		e.metrics.EscalationsTotal.WithLabelValues(trigger).Inc()
		next.Next = domain.NodeHumanProxy
	}

	// A node proposing itself (or nothing) routes back to the router
	// rather than wedging the graph.
	if next.Next == "" || next.Next == node {
		next.Next = domain.NodeRouter
	}
	next.Next = e.normalize(next.Next)

	return next, answered, nil
}

// normalize maps anything outside the closed node set to customer
// service. Worth logging, never worth failing.
func (e *Executor) normalize(node string) string {
	switch {
	case node == "":
		return domain.NodeRouter
	case node == domain.NodeEnd, domain.KnownNode(node):
		return node
	default:
		e.logger.Warn("unknown next node normalized", "node", node)
		return domain.NodeCustomerService
	}
}

// recoveryUpdate is the executor's last-resort failure path: it keeps
// the one-apology-per-failure invariant even when a responder errors
// out instead of recovering.
func (e *Executor) recoveryUpdate(state *domain.ConversationState, node string) *domain.PartialUpdate {
	fallback := domain.NodeCustomerService
	if node == domain.NodeCustomerService {
		fallback = domain.NodeHumanProxy
	}
	ctx := state.Context.Clone()
	ctx.ErrorCount++
	return &domain.PartialUpdate{
		Messages: []domain.Message{domain.NewMessage(domain.RoleAssistant,
			"I apologize, but I'm having trouble processing your request. Please try again in a moment.")},
		Next:           fallback,
		RequiresAction: true,
		ActionType:     domain.ActionErrorRecovery,
		Context:        &ctx,
		Error:          "responder failure",
	}
}
