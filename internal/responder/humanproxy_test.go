package responder

import (
	"context"
	"strings"
	"testing"

	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanProxy_Handoff(t *testing.T) {
	proxy := NewHumanProxy(&stubCompletion{})

	state := userState("u1", "I'd like to talk to a person")
	state.DialogState = []string{domain.NodeRouter, domain.NodeCustomerService}
	state.Context.EscalationReason = "frustration"

	update, err := proxy.Process(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, domain.NodeEnd, update.Next)
	assert.True(t, update.RequiresAction)
	assert.Equal(t, domain.ActionHumanEscalation, update.ActionType)

	require.Len(t, update.Messages, 1)
	assert.Contains(t, update.Messages[0].Content, "human agent")
	assert.Contains(t, update.Messages[0].Content, "Priority level: NORMAL")

	ctxOut := update.Context
	require.NotNil(t, ctxOut)
	assert.True(t, ctxOut.NeedsHumanReview)
	assert.Equal(t, domain.PriorityNormal, ctxOut.PriorityLevel)
	assert.Contains(t, ctxOut.CaseSummary, "=== Case Summary ===")
	assert.Contains(t, ctxOut.CaseSummary, "User ID: u1")
	assert.Contains(t, ctxOut.CaseSummary, "frustration")
	assert.Contains(t, ctxOut.CaseSummary, domain.NodeRouter+" -> "+domain.NodeCustomerService)
}

func TestHumanProxy_Priority(t *testing.T) {
	proxy := NewHumanProxy(&stubCompletion{})

	t.Run("urgent keyword", func(t *testing.T) {
		state := userState("u1", "this is urgent, my trip is tomorrow")
		update, err := proxy.Process(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityHigh, update.Context.PriorityLevel)
	})

	t.Run("urgent keyword outside window", func(t *testing.T) {
		state := userState("u1", "asap please")
		for _, m := range []string{"one", "two", "three"} {
			state.Messages = append(state.Messages, domain.NewMessage(domain.RoleUser, m))
		}
		update, err := proxy.Process(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityNormal, update.Context.PriorityLevel)
	})

	t.Run("accumulated errors", func(t *testing.T) {
		state := userState("u1", "nothing works")
		state.Context.ErrorCount = 3
		update, err := proxy.Process(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityHigh, update.Context.PriorityLevel)
	})

	t.Run("many transfers", func(t *testing.T) {
		state := userState("u1", "hello")
		state.DialogState = []string{"ROUTER", "PRODUCT", "TECHNICAL", "CUSTOMER_SERVICE", "PRODUCT"}
		update, err := proxy.Process(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityHigh, update.Context.PriorityLevel)
	})
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "No previous interactions", formatHistory(nil))

	msgs := []domain.Message{
		domain.NewMessage(domain.RoleUser, "hi"),
		domain.NewMessage(domain.RoleSystem, "internal"),
		domain.NewMessage(domain.RoleAssistant, "hello"),
	}
	got := formatHistory(msgs)
	assert.Equal(t, "Customer: hi\nAgent: hello", got)

	// Only the most recent turns are quoted.
	var many []domain.Message
	for i := 0; i < 10; i++ {
		many = append(many, domain.NewMessage(domain.RoleUser, "m"))
	}
	many = append(many, domain.NewMessage(domain.RoleUser, "latest"))
	windowed := formatHistory(many)
	assert.Contains(t, windowed, "latest")
	assert.Len(t, strings.Split(windowed, "\n"), historyWindow)
}
