package domain

import "reflect"

// ConversationState is the unit of work passed between every step. It is
// not safe for concurrent mutation; the session manager serializes turns
// per user.
type ConversationState struct {
	// Messages is the ordered conversation history, append-only.
	Messages []Message `json:"messages"`

	// Next is the node that should run on the following step.
	Next string `json:"next"`

	// Context holds routing signals and extracted preferences.
	Context Context `json:"context"`

	// DialogState is the ordered stack of nodes visited this
	// conversation. Depth doubles as the transfer count for the
	// escalation policy.
	DialogState []string `json:"dialog_state"`

	// RequiresAction is true when the last responder could not finish
	// its turn autonomously.
	RequiresAction bool   `json:"requires_action"`
	ActionType     string `json:"action_type,omitempty"`

	// Error is the last recovered fault description, if any. The
	// cumulative count lives in Context.ErrorCount.
	Error string `json:"error,omitempty"`
}

// NewState seeds a fresh conversation for a user: no messages, entry at
// the router, empty stack.
func NewState(userID string) *ConversationState {
	return &ConversationState{
		Messages:    []Message{},
		Next:        NodeRouter,
		Context:     Context{UserID: userID},
		DialogState: []string{},
	}
}

// Clone returns a deep copy of the state.
func (s *ConversationState) Clone() *ConversationState {
	out := *s
	out.Messages = append([]Message(nil), s.Messages...)
	out.DialogState = append([]string(nil), s.DialogState...)
	out.Context = s.Context.Clone()
	return &out
}

// Apply overlays a responder's partial update onto the state and returns
// the merged result. The receiver is left untouched. Prior messages are
// never dropped or reordered, and the dialog stack only shrinks on an
// explicit pop or clear directive.
func (s *ConversationState) Apply(update *PartialUpdate) *ConversationState {
	next := s.Clone()
	if update == nil {
		return next
	}

	next.Messages = append(next.Messages, update.Messages...)

	if update.Next != "" {
		next.Next = update.Next
	}
	next.RequiresAction = update.RequiresAction
	next.ActionType = update.ActionType
	next.Error = update.Error

	if update.Context != nil {
		next.Context = update.Context.Clone()
	}

	switch update.Stack {
	case "":
		// No-op.
	case StackPop:
		if n := len(next.DialogState); n > 0 {
			next.DialogState = next.DialogState[:n-1]
		}
	case StackClear:
		next.DialogState = next.DialogState[:0]
	default:
		next.Push(update.Stack)
	}

	return next
}

// Push appends a node to the dialog stack unless it is already the top,
// avoiding duplicate consecutive entries.
func (s *ConversationState) Push(node string) {
	if n := len(s.DialogState); n > 0 && s.DialogState[n-1] == node {
		return
	}
	s.DialogState = append(s.DialogState, node)
}

// Terminal reports whether the conversation is awaiting a human agent.
func (s *ConversationState) Terminal() bool {
	return s.Next == NodeEnd
}

// Equal reports structural equality of two states.
func (s *ConversationState) Equal(other *ConversationState) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Next != other.Next ||
		s.RequiresAction != other.RequiresAction ||
		s.ActionType != other.ActionType ||
		s.Error != other.Error {
		return false
	}
	if len(s.Messages) != len(other.Messages) || len(s.DialogState) != len(other.DialogState) {
		return false
	}
	for i := range s.Messages {
		a, b := s.Messages[i], other.Messages[i]
		if a.Role != b.Role || a.Content != b.Content || !a.Timestamp.Equal(b.Timestamp) {
			return false
		}
	}
	for i := range s.DialogState {
		if s.DialogState[i] != other.DialogState[i] {
			return false
		}
	}
	return contextEqual(s.Context, other.Context)
}

func contextEqual(a, b Context) bool {
	if a.UserID != b.UserID ||
		a.ErrorCount != b.ErrorCount ||
		a.FailedAttempts != b.FailedAttempts ||
		a.PreviousDepartment != b.PreviousDepartment ||
		a.RoutingReason != b.RoutingReason ||
		a.PriorityLevel != b.PriorityLevel ||
		a.EscalationReason != b.EscalationReason ||
		a.CaseSummary != b.CaseSummary ||
		a.NeedsHumanReview != b.NeedsHumanReview {
		return false
	}
	if len(a.Extra) != len(b.Extra) {
		return false
	}
	if len(a.Extra) > 0 && !reflect.DeepEqual(a.Extra, b.Extra) {
		return false
	}
	return reflect.DeepEqual(a.Hotel, b.Hotel) &&
		reflect.DeepEqual(a.Rental, b.Rental) &&
		reflect.DeepEqual(a.Excursion, b.Excursion) &&
		reflect.DeepEqual(a.Flight, b.Flight)
}
