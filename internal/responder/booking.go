package responder

import (
	"context"
	"regexp"
	"strings"

	"github.com/agenthub/agenthub/pkg/domain"
)

// bookingDesk is the shared behavior of the four booking responders:
// extract advisory preferences from the latest user message, then answer
// via the completion service. Extraction is best-effort and never
// authoritative; it only enriches the context for later prompts.
type bookingDesk struct {
	base
	promptFmt string
	extract   func(message string, ctx *domain.Context)
}

const bookingApology = "I apologize, but I'm having trouble with the booking system. " +
	"Let me connect you with customer service for assistance."

func (d *bookingDesk) Process(ctx context.Context, state *domain.ConversationState) (*domain.PartialUpdate, error) {
	updated := state.Context.Clone()
	updated.PreviousDepartment = d.node

	if latest := domain.LatestUserMessage(state.Messages); latest != "" && d.extract != nil {
		d.extract(strings.ToLower(latest), &updated)
	}

	response, err := d.complete(ctx, state.Messages, specialistPrompt(d.promptFmt, state))
	if err != nil {
		// Preserve whatever we extracted; the reroute shouldn't lose it.
		fail := d.failure(state, domain.NodeCustomerService, bookingApology, "completion call failed")
		merged := updated
		merged.ErrorCount++
		fail.Context = &merged
		return fail, nil
	}

	return &domain.PartialUpdate{
		Messages: []domain.Message{domain.NewMessage(domain.RoleAssistant, response)},
		Context:  &updated,
	}, nil
}

// locationPattern pulls a destination out of phrasings like "in Lisbon",
// "near the airport", "around Porto".
var locationPattern = regexp.MustCompile(`(?:in|at|near|around)\s+([a-z][a-z\s]+)`)

func extractLocation(message string) string {
	m := locationPattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func firstMatch(message string, candidates []string) string {
	for _, c := range candidates {
		if strings.Contains(message, c) {
			return c
		}
	}
	return ""
}

func allMatches(message string, candidates []string) []string {
	var out []string
	for _, c := range candidates {
		if strings.Contains(message, c) {
			out = append(out, c)
		}
	}
	return out
}
