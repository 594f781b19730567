package domain

// Stack directives a responder may issue through a PartialUpdate.
// Any other non-empty value is treated as a node ID to push.
const (
	StackPop   = "pop"
	StackClear = "clear"
)

// PartialUpdate is what a responder returns from one processing step.
// The executor overlays it onto the prior state via State.Apply; the
// update itself never mutates anything.
type PartialUpdate struct {
	// Messages are appended to the conversation. Every responder,
	// including failure paths, appends at least one assistant message.
	Messages []Message

	// Next is the proposed node for the following step. Empty means
	// "no opinion" and defaults to ROUTER at the executor boundary.
	Next string

	// RequiresAction is true when the turn could not complete
	// autonomously, paired with ActionType.
	RequiresAction bool
	ActionType     string

	// Context, when non-nil, replaces the state's context. Responders
	// derive it from a clone of the prior context so unrelated fields
	// survive.
	Context *Context

	// Stack is a dialog-stack directive: "" is a no-op, a node ID
	// pushes, StackPop pops, StackClear empties.
	Stack string

	// Error describes a recovered fault, if any.
	Error string
}
