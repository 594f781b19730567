package responder

import (
	"context"
	"strings"

	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/agenthub/agenthub/pkg/ports"
)

// specialist is the shared behavior of the support responders
// (product, technical, customer service): answer via the completion
// service, then scan the answer for escalation triggers.
type specialist struct {
	base
	promptFmt string
	fallback  string
	apology   string
	rules     []escalationRule
}

func (s *specialist) Process(ctx context.Context, state *domain.ConversationState) (*domain.PartialUpdate, error) {
	response, err := s.complete(ctx, state.Messages, specialistPrompt(s.promptFmt, state))
	if err != nil {
		return s.failure(state, s.fallback, s.apology, "completion call failed"), nil
	}

	update := &domain.PartialUpdate{
		Messages: []domain.Message{domain.NewMessage(domain.RoleAssistant, response)},
	}

	updated := state.Context.Clone()
	updated.PreviousDepartment = s.node

	if target, reason, ok := detectEscalation(strings.ToLower(response), s.rules); ok {
		update.RequiresAction = true
		update.ActionType = domain.ActionEscalate
		update.Next = target
		updated.EscalationReason = reason
	}

	update.Context = &updated
	return update, nil
}

// NewProduct creates the product information responder.
func NewProduct(completion ports.CompletionService, opts ...BaseOption) Responder {
	return &specialist{
		base:      newBase(domain.NodeProduct, completion, opts...),
		promptFmt: productPromptFmt,
		fallback:  domain.NodeCustomerService,
		apology: "I apologize, but I'm having trouble accessing product information. " +
			"Let me connect you with customer service for assistance.",
		rules: []escalationRule{
			compileRule(domain.NodeTechnical, "Technical support needed for implementation/issues",
				`technical|support|install|bug|error|issue`,
				`not working|doesn't work|failed|crash`,
				`setup|configure|integration`,
				`troubleshoot|debug|fix`,
			),
			compileRule(domain.NodeCustomerService, "Account or billing related inquiry",
				`billing|payment|account|subscription`,
				`refund|cancel|return`,
				`policy|terms|conditions`,
				`customer service|support team`,
			),
		},
	}
}

// NewTechnical creates the technical support responder.
func NewTechnical(completion ports.CompletionService, opts ...BaseOption) Responder {
	return &specialist{
		base:      newBase(domain.NodeTechnical, completion, opts...),
		promptFmt: technicalPromptFmt,
		fallback:  domain.NodeCustomerService,
		apology: "I apologize, but I'm having trouble processing your request. " +
			"Please try again or contact customer service for assistance.",
		rules: []escalationRule{
			compileRule(domain.NodeProduct, "Need product information to proceed",
				`product (specs|specifications|details|information)`,
				`(don't|do not) have (the )?product information`,
				`need to check (the )?product`,
			),
			compileRule(domain.NodeCustomerService, "Billing or account related issue",
				`billing (issue|question|concern)`,
				`payment (processing|method|issue)`,
				`account (status|balance|billing)`,
			),
		},
	}
}

// NewCustomerService creates the general support responder. Its own
// failure path hands off to the human proxy, since customer service is
// already the downstream catch-all for everyone else.
func NewCustomerService(completion ports.CompletionService, opts ...BaseOption) Responder {
	return &specialist{
		base:      newBase(domain.NodeCustomerService, completion, opts...),
		promptFmt: customerServicePromptFmt,
		fallback:  domain.NodeHumanProxy,
		apology: "I apologize for the technical difficulty. " +
			"Let me connect you with someone who can help.",
		rules: []escalationRule{
			compileRule(domain.NodeTechnical, "Technical support needed",
				`technical issue|technical support`,
				`\bbug\b|\berror\b`,
			),
			compileRule(domain.NodeProduct, "Product information needed",
				`product details|product specifications|product features`,
			),
		},
	}
}
