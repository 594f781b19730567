package responder

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agenthub/agenthub/pkg/domain"
)

// PatternWeight is one scored pattern in the fallback classifier table.
type PatternWeight struct {
	Pattern *regexp.Regexp
	Weight  float64
}

// Classifier is the deterministic pattern-matching fallback used when
// the completion service fails to classify an intent (or answers with
// something outside the label set). Identical message text and context
// always produce the same department.
type Classifier struct {
	table    map[string][]PatternWeight
	priority []string
}

// tieBreak is the fixed department priority used when scores tie.
var tieBreak = []string{
	domain.NodeProduct,
	domain.NodeTechnical,
	domain.NodeCustomerService,
	domain.NodeFlightBooking,
	domain.NodeHotelBooking,
	domain.NodeCarRental,
	domain.NodeExcursion,
}

// NewClassifier builds a classifier from a table of department →
// (pattern, weight) pairs. A nil table uses the compiled-in defaults.
// Table keys outside the fixed priority list are still selectable; they
// rank after it, in lexical order.
func NewClassifier(table map[string][]PatternWeight) *Classifier {
	if table == nil {
		table = defaultClassifierTable()
	}
	priority := append([]string(nil), tieBreak...)
	known := make(map[string]bool, len(priority))
	for _, dept := range priority {
		known[dept] = true
	}
	var extras []string
	for dept := range table {
		if !known[dept] {
			extras = append(extras, dept)
		}
	}
	sort.Strings(extras)
	return &Classifier{table: table, priority: append(priority, extras...)}
}

// CompilePatterns turns plain (expression, weight) config entries into a
// classifier table, so keyword lists stay configuration rather than
// hard contract.
func CompilePatterns(raw map[string]map[string]float64) (map[string][]PatternWeight, error) {
	table := make(map[string][]PatternWeight, len(raw))
	for dept, patterns := range raw {
		for expr, weight := range patterns {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, err
			}
			table[dept] = append(table[dept], PatternWeight{Pattern: re, Weight: weight})
		}
	}
	return table, nil
}

// Classify scores every department against the lower-cased message,
// applies the context biases, and returns the argmax. Ties break on the
// fixed priority order. A message that matches nothing routes to
// customer service.
func (c *Classifier) Classify(message string, ctx domain.Context) string {
	lower := strings.ToLower(message)

	scores := make(map[string]float64, len(c.table))
	for dept, patterns := range c.table {
		for _, pw := range patterns {
			if pw.Pattern.MatchString(lower) {
				scores[dept] += pw.Weight
			}
		}
	}

	// Sticky bias toward the department already handling this user.
	if prev := ctx.PreviousDepartment; prev != "" {
		scores[prev] += 0.1
	}
	// Struggling conversations lean toward customer service.
	if ctx.ErrorCount > 2 {
		scores[domain.NodeCustomerService] += 0.2
	}

	best := ""
	bestScore := 0.0
	for _, dept := range c.priority {
		if s := scores[dept]; s > bestScore {
			best = dept
			bestScore = s
		}
	}
	if best == "" {
		return domain.NodeCustomerService
	}
	return best
}

func defaultClassifierTable() map[string][]PatternWeight {
	mk := func(weight float64, exprs ...string) []PatternWeight {
		out := make([]PatternWeight, len(exprs))
		for i, e := range exprs {
			out[i] = PatternWeight{Pattern: regexp.MustCompile(e), Weight: weight}
		}
		return out
	}
	table := map[string][]PatternWeight{
		domain.NodeProduct: mk(1.0,
			`price|pricing|cost|how much`,
			`product|item|catalog`,
			`feature|specification|spec\b`,
			`availab|in stock`,
			`buy|purchase|order`,
		),
		domain.NodeTechnical: mk(1.0,
			`install|setup|configure`,
			`error|bug|crash|broken`,
			`not working|doesn't work|won't start|failed`,
			`troubleshoot|debug|fix`,
			`technical`,
		),
		domain.NodeCustomerService: mk(1.0,
			`billing|invoice|charge`,
			`account|subscription`,
			`refund|cancel my|return`,
			`policy|terms|conditions`,
		),
		domain.NodeFlightBooking: mk(1.0,
			`flight|plane|airport|airline`,
		),
		domain.NodeHotelBooking: mk(1.0,
			`hotel|accommodation|resort`,
			`\broom\b|stay`,
		),
		domain.NodeCarRental: mk(1.0,
			`\bcar\b|vehicle`,
			`rental|rent a`,
		),
		domain.NodeExcursion: mk(1.0,
			`tour|excursion|sightseeing`,
			`activity|activities`,
		),
	}
	// Generic help phrasing is a weak customer-service signal only.
	table[domain.NodeCustomerService] = append(table[domain.NodeCustomerService],
		PatternWeight{Pattern: regexp.MustCompile(`help|support`), Weight: 0.5})
	return table
}
