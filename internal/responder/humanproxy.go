package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/agenthub/agenthub/pkg/ports"
)

// urgentKeywords raise a case to HIGH priority when they appear in any
// of the last three user turns.
var urgentKeywords = []string{"urgent", "emergency", "critical", "immediately", "asap"}

// HumanProxy prepares a case for human review. It is deterministic: the
// handoff message, priority and summary are computed locally, without a
// completion call, so a handoff can never itself fail on the completion
// service.
type HumanProxy struct {
	base
}

// NewHumanProxy creates the human handoff responder. The completion
// service is accepted for interface symmetry but unused.
func NewHumanProxy(completion ports.CompletionService, opts ...BaseOption) *HumanProxy {
	return &HumanProxy{base: newBase(domain.NodeHumanProxy, completion, opts...)}
}

// Process produces the handoff message and parks the conversation at the
// terminal marker, awaiting a human agent.
func (h *HumanProxy) Process(ctx context.Context, state *domain.ConversationState) (*domain.PartialUpdate, error) {
	priority := assessPriority(state)
	summary := caseSummary(state, priority)

	handoff := fmt.Sprintf(
		"I'll connect you with a human agent who can better assist you. "+
			"Priority level: %s\n"+
			"A support representative will review your case and respond shortly.",
		priority,
	)

	updated := state.Context.Clone()
	updated.PriorityLevel = priority
	updated.CaseSummary = summary
	updated.NeedsHumanReview = true

	return &domain.PartialUpdate{
		Messages:       []domain.Message{domain.NewMessage(domain.RoleAssistant, handoff)},
		Next:           domain.NodeEnd,
		RequiresAction: true,
		ActionType:     domain.ActionHumanEscalation,
		Context:        &updated,
	}, nil
}

// assessPriority computes the case priority: HIGH when an urgent keyword
// shows up in the last 3 user turns, the conversation has accumulated
// more than 2 errors, or the user has been transferred more than 4
// times.
func assessPriority(state *domain.ConversationState) string {
	for _, m := range domain.LastUserMessages(state.Messages, 3) {
		if containsAny(m.Content, urgentKeywords) {
			return domain.PriorityHigh
		}
	}
	if state.Context.ErrorCount > 2 {
		return domain.PriorityHigh
	}
	if len(state.DialogState) > 4 {
		return domain.PriorityHigh
	}
	return domain.PriorityNormal
}

// caseSummary formats the record a human agent sees first.
func caseSummary(state *domain.ConversationState, priority string) string {
	parts := []string{
		"=== Case Summary ===",
		"User ID: " + orUnknown(state.Context.UserID),
		"Priority: " + priority,
		"Escalation Reason: " + orNotSpecified(state.Context.EscalationReason),
		"Transfers: " + strings.Join(state.DialogState, " -> "),
		"",
		"=== Recent Conversation ===",
		formatHistory(state.Messages),
	}
	return strings.Join(parts, "\n")
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}
