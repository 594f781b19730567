package runtime

import (
	"strings"

	"github.com/agenthub/agenthub/pkg/domain"
)

// Escalation trigger names, used as the metric label and for logging.
const (
	TriggerErrorCount     = "error_count"
	TriggerLongTalk       = "long_conversation"
	TriggerTransferDepth  = "transfer_depth"
	TriggerFrustration    = "frustration"
	TriggerFailedAttempts = "failed_attempts"
	TriggerSensitiveTopic = "sensitive_topic"
)

// Policy decides when a conversation must be forced to the human proxy,
// overriding whatever the responder proposed. It is a pure function of
// state; the executor evaluates it after every step.
//
// Thresholds and keyword lists are configuration, not contract: the
// zero-value-free defaults below consolidate the most aggressive
// production settings.
type Policy struct {
	MaxErrors         int
	MaxMessages       int
	MaxTransfers      int
	MaxFailedAttempts int
	Frustration       []string
	Sensitive         []string
}

// DefaultPolicy returns the standard escalation policy.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxErrors:         3,
		MaxMessages:       15,
		MaxTransfers:      5,
		MaxFailedAttempts: 2,
		Frustration: []string{
			"frustrated", "angry", "upset", "unhelpful", "human",
			"supervisor", "manager", "terrible", "waste", "useless",
		},
		Sensitive: []string{
			"complaint", "legal", "lawsuit", "compensation",
			"data protection", "gdpr", "privacy request",
		},
	}
}

// ShouldEscalate reports whether any trigger fires, and which one. Any
// single trigger suffices.
func (p *Policy) ShouldEscalate(state *domain.ConversationState) (string, bool) {
	if state.Context.ErrorCount >= p.MaxErrors {
		return TriggerErrorCount, true
	}
	if len(state.Messages) > p.MaxMessages {
		return TriggerLongTalk, true
	}
	if len(state.DialogState) > p.MaxTransfers {
		return TriggerTransferDepth, true
	}
	if state.Context.FailedAttempts >= p.MaxFailedAttempts {
		return TriggerFailedAttempts, true
	}

	recent := domain.LastUserMessages(state.Messages, 3)
	for _, m := range recent {
		lower := strings.ToLower(m.Content)
		for _, kw := range p.Frustration {
			if strings.Contains(lower, kw) {
				return TriggerFrustration, true
			}
		}
		for _, kw := range p.Sensitive {
			if strings.Contains(lower, kw) {
				return TriggerSensitiveTopic, true
			}
		}
	}
	return "", false
}
