package responder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agenthub/agenthub/pkg/domain"
)

// historyWindow is how many recent turns are quoted back to the
// completion service inside the instruction prompt.
const historyWindow = 5

// formatHistory renders the last few user/assistant turns as
// "Customer:"/"Agent:" lines for prompt context.
func formatHistory(messages []domain.Message) string {
	var lines []string
	for _, m := range messages {
		switch m.Role {
		case domain.RoleUser:
			lines = append(lines, "Customer: "+m.Content)
		case domain.RoleAssistant:
			lines = append(lines, "Agent: "+m.Content)
		}
	}
	if len(lines) > historyWindow {
		lines = lines[len(lines)-historyWindow:]
	}
	if len(lines) == 0 {
		return "No previous interactions"
	}
	return strings.Join(lines, "\n")
}

// formatContext renders routing signals as key/value lines for prompt
// context. Only fields a human agent would care about are included.
func formatContext(ctx domain.Context) string {
	var lines []string
	if ctx.PreviousDepartment != "" {
		lines = append(lines, "previous_department: "+ctx.PreviousDepartment)
	}
	if ctx.ErrorCount > 0 {
		lines = append(lines, fmt.Sprintf("error_count: %d", ctx.ErrorCount))
	}
	if ctx.RoutingReason != "" {
		lines = append(lines, "routing_reason: "+ctx.RoutingReason)
	}
	if ctx.PriorityLevel != "" {
		lines = append(lines, "priority_level: "+ctx.PriorityLevel)
	}
	keys := make([]string, 0, len(ctx.Extra))
	for k := range ctx.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, ctx.Extra[k]))
	}
	if len(lines) == 0 {
		return "No additional context."
	}
	return strings.Join(lines, "\n")
}

// containsAny reports whether the lower-cased text contains any of the
// given keywords.
func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
