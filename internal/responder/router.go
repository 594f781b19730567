package responder

import (
	"context"
	"strings"

	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/agenthub/agenthub/pkg/ports"
)

// completionLabels maps the router's closed classification label set to
// graph nodes. Anything outside it falls through to the deterministic
// classifier.
var completionLabels = map[string]string{
	"PRODUCT":          domain.NodeProduct,
	"TECHNICAL":        domain.NodeTechnical,
	"CUSTOMER_SERVICE": domain.NodeCustomerService,
	"FLIGHT":           domain.NodeFlightBooking,
	"HOTEL":            domain.NodeHotelBooking,
	"CAR_RENTAL":       domain.NodeCarRental,
	"EXCURSION":        domain.NodeExcursion,
	"HUMAN":            domain.NodeHumanProxy,
}

// Router classifies the user's intent and dispatches to a specialist.
// It never answers the user directly.
type Router struct {
	base
	classifier *Classifier
}

// NewRouter creates the routing responder. classifier may be nil to use
// the default pattern table.
func NewRouter(completion ports.CompletionService, classifier *Classifier, opts ...BaseOption) *Router {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	return &Router{
		base:       newBase(domain.NodeRouter, completion, opts...),
		classifier: classifier,
	}
}

// Process asks the completion service for an intent label and falls back
// to the pattern classifier on failure or ambiguity. Routing ambiguity
// is never surfaced as an error.
func (r *Router) Process(ctx context.Context, state *domain.ConversationState) (*domain.PartialUpdate, error) {
	latest := domain.LatestUserMessage(state.Messages)

	next := ""
	reason := ""

	response, err := r.complete(ctx, state.Messages, routerClassifyPrompt)
	if err == nil {
		label := strings.ToUpper(strings.TrimSpace(response))
		if node, ok := completionLabels[label]; ok {
			next = node
			reason = "classified as " + label
		}
	}

	if next == "" {
		next = r.classifier.Classify(latest, state.Context)
		reason = "pattern fallback"
		r.logger.Debug("router fell back to pattern classifier", "next", next)
	}

	updated := state.Context.Clone()
	updated.RoutingReason = reason
	updated.PreviousDepartment = next

	return &domain.PartialUpdate{
		Next:    next,
		Context: &updated,
	}, nil
}
