package responder

import (
	"context"
	"testing"

	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCompletion answers every call with a fixed reply, or fails when
// err is set. It records the system override for prompt assertions.
type stubCompletion struct {
	reply    string
	err      error
	calls    int
	override string
}

func (s *stubCompletion) Complete(_ context.Context, _ []domain.Message, override string) (string, error) {
	s.calls++
	s.override = override
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func userState(userID, message string) *domain.ConversationState {
	state := domain.NewState(userID)
	state.Messages = append(state.Messages, domain.NewMessage(domain.RoleUser, message))
	return state
}

func TestRouter_CompletionLabel(t *testing.T) {
	stub := &stubCompletion{reply: " hotel \n"}
	r := NewRouter(stub, nil)

	update, err := r.Process(context.Background(), userState("u1", "somewhere to sleep tonight"))
	require.NoError(t, err)

	assert.Equal(t, domain.NodeHotelBooking, update.Next)
	assert.Empty(t, update.Messages, "router never answers the user")
	assert.Equal(t, domain.NodeHotelBooking, update.Context.PreviousDepartment)
	assert.Contains(t, update.Context.RoutingReason, "HOTEL")
}

func TestRouter_FallbackOnFailure(t *testing.T) {
	stub := &stubCompletion{err: domain.ErrCompletionUnavailable}
	r := NewRouter(stub, nil)

	update, err := r.Process(context.Background(), userState("u1", "my setup is broken"))
	require.NoError(t, err, "routing ambiguity is never an error")

	assert.Equal(t, domain.NodeTechnical, update.Next)
	assert.Equal(t, "pattern fallback", update.Context.RoutingReason)
}

func TestRouter_FallbackOnUnknownLabel(t *testing.T) {
	stub := &stubCompletion{reply: "I think this is about billing, maybe?"}
	r := NewRouter(stub, nil)

	update, err := r.Process(context.Background(), userState("u1", "question about my invoice"))
	require.NoError(t, err)

	assert.Equal(t, domain.NodeCustomerService, update.Next)
	assert.Equal(t, "pattern fallback", update.Context.RoutingReason)
}

func TestSpecialist_Answer(t *testing.T) {
	stub := &stubCompletion{reply: "The premium plan includes all connectors."}
	p := NewProduct(stub)

	update, err := p.Process(context.Background(), userState("u1", "what's in the premium plan?"))
	require.NoError(t, err)

	require.Len(t, update.Messages, 1)
	assert.Equal(t, domain.RoleAssistant, update.Messages[0].Role)
	assert.False(t, update.RequiresAction)
	assert.Empty(t, update.Next)
	assert.Equal(t, domain.NodeProduct, update.Context.PreviousDepartment)
	assert.Contains(t, stub.override, "u1", "prompt carries the user id")
}

func TestSpecialist_ReferralToTechnical(t *testing.T) {
	stub := &stubCompletion{reply: "That sounds like a bug; technical support can dig into it."}
	p := NewProduct(stub)

	update, err := p.Process(context.Background(), userState("u1", "the export button does nothing"))
	require.NoError(t, err)

	assert.True(t, update.RequiresAction)
	assert.Equal(t, domain.ActionEscalate, update.ActionType)
	assert.Equal(t, domain.NodeTechnical, update.Next)
	assert.NotEmpty(t, update.Context.EscalationReason)
	// The answer is still delivered alongside the referral.
	require.Len(t, update.Messages, 1)
}

func TestSpecialist_TechnicalNeedsProductInfo(t *testing.T) {
	stub := &stubCompletion{reply: "I don't have the product information for that model."}
	tech := NewTechnical(stub)

	update, err := tech.Process(context.Background(), userState("u1", "does it support SSO?"))
	require.NoError(t, err)

	assert.Equal(t, domain.NodeProduct, update.Next)
	assert.True(t, update.RequiresAction)
}

func TestSpecialist_FailureReroutes(t *testing.T) {
	stub := &stubCompletion{err: domain.ErrCompletionUnavailable}
	p := NewProduct(stub)

	state := userState("u1", "what colors are available?")
	update, err := p.Process(context.Background(), state)
	require.NoError(t, err, "completion faults degrade, they don't propagate")

	assert.Equal(t, domain.NodeCustomerService, update.Next)
	assert.True(t, update.RequiresAction)
	assert.Equal(t, domain.ActionErrorRecovery, update.ActionType)
	assert.Equal(t, 1, update.Context.ErrorCount)
	require.Len(t, update.Messages, 1)
	assert.Contains(t, update.Messages[0].Content, "I apologize")
}

func TestSpecialist_CustomerServiceFailsToHuman(t *testing.T) {
	stub := &stubCompletion{err: domain.ErrCompletionUnavailable}
	cs := NewCustomerService(stub)

	update, err := cs.Process(context.Background(), userState("u1", "anything"))
	require.NoError(t, err)

	assert.Equal(t, domain.NodeHumanProxy, update.Next)
	assert.Equal(t, domain.ActionErrorRecovery, update.ActionType)
}
