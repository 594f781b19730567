package responder

import "regexp"

// escalationRule matches a responder's own completion output against
// department-specific trigger phrases.
type escalationRule struct {
	target   string
	reason   string
	patterns []*regexp.Regexp
}

func compileRule(target, reason string, exprs ...string) escalationRule {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		patterns[i] = regexp.MustCompile(e)
	}
	return escalationRule{target: target, reason: reason, patterns: patterns}
}

// detectEscalation scans the lower-cased response against the rules in
// order and returns the first matching department. Rule order matters:
// earlier rules win.
func detectEscalation(response string, rules []escalationRule) (target, reason string, ok bool) {
	for _, rule := range rules {
		for _, p := range rule.patterns {
			if p.MatchString(response) {
				return rule.target, rule.reason, true
			}
		}
	}
	return "", "", false
}
