package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthub/agenthub/internal/ratelimit"
	"github.com/agenthub/agenthub/internal/responder"
	"github.com/agenthub/agenthub/internal/runtime"
	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompletion replays canned replies in order. An exhausted
// script behaves like an unavailable completion service.
type scriptedCompletion struct {
	replies []string
	calls   int
}

func (s *scriptedCompletion) Complete(_ context.Context, _ []domain.Message, _ string) (string, error) {
	s.calls++
	if len(s.replies) == 0 {
		return "", domain.ErrCompletionUnavailable
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func newTestExecutor(completion *scriptedCompletion, opts ...runtime.Option) *runtime.Executor {
	governor := ratelimit.NewGovernor(ratelimit.WithCapacity(1000))
	exec := runtime.NewExecutor(governor, runtime.DefaultPolicy(), opts...)
	exec.Register(responder.NewRouter(completion, nil))
	exec.Register(responder.NewProduct(completion))
	exec.Register(responder.NewTechnical(completion))
	exec.Register(responder.NewCustomerService(completion))
	exec.Register(responder.NewFlightBooking(completion))
	exec.Register(responder.NewHotelBooking(completion))
	exec.Register(responder.NewCarRental(completion))
	exec.Register(responder.NewExcursion(completion))
	exec.Register(responder.NewHumanProxy(completion))
	return exec
}

func newTurnState(userID, message string) *domain.ConversationState {
	state := domain.NewState(userID)
	state.Messages = append(state.Messages, domain.NewMessage(domain.RoleUser, message))
	return state
}

func TestTurn_RoutesAndAnswers(t *testing.T) {
	completion := &scriptedCompletion{replies: []string{
		"PRODUCT",
		"Our plans start at $29/month for the basic tier.",
	}}
	exec := newTestExecutor(completion)

	state := newTurnState("u1", "What are the prices of your products?")
	result, err := exec.Turn(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, []string{domain.NodeRouter, domain.NodeProduct}, result.DialogState)
	assert.Equal(t, domain.NodeProduct, result.Context.PreviousDepartment)
	assert.Equal(t, domain.NodeRouter, result.Next)
	assert.False(t, result.RequiresAction)

	last := result.Messages[len(result.Messages)-1]
	assert.Equal(t, domain.RoleAssistant, last.Role)
	assert.Contains(t, last.Content, "$29")

	// original state untouched
	assert.Empty(t, state.DialogState)
	assert.Len(t, state.Messages, 1)
}

func TestTurn_RouterFallsBackToPatterns(t *testing.T) {
	// Router's completion call fails; the pattern classifier routes on
	// keywords instead and the specialist still answers.
	completion := &scriptedCompletion{replies: []string{
		"", // unusable router label, falls through
		"I can check available flights to Paris for you.",
	}}
	exec := newTestExecutor(completion)

	result, err := exec.Turn(context.Background(), newTurnState("u1", "I need a flight to Paris"))
	require.NoError(t, err)

	assert.Equal(t, []string{domain.NodeRouter, domain.NodeFlightBooking}, result.DialogState)
	assert.Contains(t, result.Context.RoutingReason, "pattern fallback")
}

func TestTurn_SpecialistReferralRequiresAction(t *testing.T) {
	completion := &scriptedCompletion{replies: []string{
		"For setup questions you'll want the product specifications first.",
	}}
	exec := newTestExecutor(completion)

	state := newTurnState("u1", "How do I install this?")
	state.Next = domain.NodeTechnical
	result, err := exec.Turn(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, domain.NodeProduct, result.Next)
	assert.True(t, result.RequiresAction)
	assert.Equal(t, domain.ActionEscalate, result.ActionType)
	assert.NotEmpty(t, result.Context.EscalationReason)
	assert.Equal(t, []string{domain.NodeTechnical}, result.DialogState)
}

func TestTurn_ErrorCountForcesHumanHandoff(t *testing.T) {
	completion := &scriptedCompletion{replies: []string{"CUSTOMER_SERVICE"}}
	exec := newTestExecutor(completion)

	state := newTurnState("u1", "hello again")
	state.Context.ErrorCount = 3
	result, err := exec.Turn(context.Background(), state)
	require.NoError(t, err)

	assert.True(t, result.Terminal())
	assert.True(t, result.RequiresAction)
	assert.Equal(t, domain.ActionHumanEscalation, result.ActionType)
	assert.Equal(t, domain.PriorityHigh, result.Context.PriorityLevel)
	assert.True(t, result.Context.NeedsHumanReview)
	assert.Contains(t, result.Context.CaseSummary, "=== Case Summary ===")

	last := result.Messages[len(result.Messages)-1]
	assert.Contains(t, last.Content, "Priority level: HIGH")
}

func TestTurn_RateLimited(t *testing.T) {
	completion := &scriptedCompletion{replies: []string{
		"CUSTOMER_SERVICE",
		"Happy to help with that.",
	}}
	governor := ratelimit.NewGovernor(ratelimit.WithCapacity(1))
	exec := runtime.NewExecutor(governor, runtime.DefaultPolicy())
	exec.Register(responder.NewRouter(completion, nil))
	exec.Register(responder.NewCustomerService(completion))

	_, err := exec.Turn(context.Background(), newTurnState("u1", "help please"))
	require.NoError(t, err)

	_, err = exec.Turn(context.Background(), newTurnState("u1", "help again"))
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestTurn_HopBudgetStopsWithoutAnswer(t *testing.T) {
	completion := &scriptedCompletion{replies: []string{"PRODUCT"}}
	exec := newTestExecutor(completion, runtime.WithMaxHops(1))

	result, err := exec.Turn(context.Background(), newTurnState("u1", "tell me about pricing"))
	require.NoError(t, err)

	// Only the router ran: routing decided, no answer yet.
	assert.Equal(t, domain.NodeProduct, result.Next)
	assert.Equal(t, []string{domain.NodeRouter}, result.DialogState)
	assert.Len(t, result.Messages, 1)
}

func TestStep_UnknownNextNormalized(t *testing.T) {
	completion := &scriptedCompletion{replies: []string{"We can sort that out right away."}}
	exec := newTestExecutor(completion)

	state := newTurnState("u1", "something odd")
	state.Next = "BILLING_DESK"
	result, err := exec.Step(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, []string{domain.NodeCustomerService}, result.DialogState)
}

func TestStep_UnregisteredResponder(t *testing.T) {
	governor := ratelimit.NewGovernor()
	exec := runtime.NewExecutor(governor, runtime.DefaultPolicy())

	_, err := exec.Step(context.Background(), newTurnState("u1", "hi"))
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
}

// faultyResponder forces the executor's own recovery path.
type faultyResponder struct{ node string }

func (f *faultyResponder) Node() string { return f.node }

func (f *faultyResponder) Process(context.Context, *domain.ConversationState) (*domain.PartialUpdate, error) {
	return nil, errors.New("boom")
}

func TestStep_ResponderFailureRecovers(t *testing.T) {
	governor := ratelimit.NewGovernor()
	exec := runtime.NewExecutor(governor, runtime.DefaultPolicy())
	exec.Register(&faultyResponder{node: domain.NodeRouter})

	state := newTurnState("u1", "hi")
	result, err := exec.Step(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, domain.NodeCustomerService, result.Next)
	assert.Equal(t, 1, result.Context.ErrorCount)
	assert.True(t, result.RequiresAction)
	assert.Equal(t, domain.ActionErrorRecovery, result.ActionType)

	last := result.Messages[len(result.Messages)-1]
	assert.Equal(t, domain.RoleAssistant, last.Role)
	assert.Contains(t, last.Content, "I apologize")
}

func TestStep_CustomerServiceFailureGoesToHuman(t *testing.T) {
	governor := ratelimit.NewGovernor()
	exec := runtime.NewExecutor(governor, runtime.DefaultPolicy())
	exec.Register(&faultyResponder{node: domain.NodeCustomerService})

	state := newTurnState("u1", "hi")
	state.Next = domain.NodeCustomerService
	result, err := exec.Step(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, domain.NodeHumanProxy, result.Next)
}
