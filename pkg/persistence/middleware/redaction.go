package middleware

import (
	"context"
	"regexp"

	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/agenthub/agenthub/pkg/ports"
)

const mask = "***"

type redactionMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewRedaction creates a middleware that masks the values of context
// keys matching any of the patterns before the state reaches the
// backing store. The in-memory state the engine works with is left
// untouched.
func NewRedaction(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.StateStore) ports.StateStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactionMiddleware) Save(ctx context.Context, userID string, state *domain.ConversationState) error {
	cloned := state.Clone()
	maskKeys(cloned.Context.Extra, m.patterns)
	return m.next.Save(ctx, userID, cloned)
}

func (m *redactionMiddleware) Load(ctx context.Context, userID string) (*domain.ConversationState, error) {
	return m.next.Load(ctx, userID)
}

func (m *redactionMiddleware) Delete(ctx context.Context, userID string) error {
	return m.next.Delete(ctx, userID)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func maskKeys(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = mask
				break
			}
		}
		if sub, ok := v.(map[string]any); ok {
			maskKeys(sub, patterns)
		}
	}
}
