package retrieval

import "strings"

// followUpCues is the referential/comparative vocabulary that marks a
// question as a continuation of the prior turn. The list is a replaceable
// policy, intentionally approximate: false positives and negatives are an
// accepted tradeoff, not defects.
var followUpCues = []string{
	"these", "those", "them", "it", "pricing", "price", "cost", "how much",
	"what about", "and what", "compare", "which one", "cheapest", "most expensive",
	"more details", "tell me more", "amenities", "availability", "location",
}

// IsFollowUp reports whether a question reads like a follow-up to the
// previous turn rather than a new topic. Empty input is never a follow-up.
func IsFollowUp(question string) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return false
	}
	for _, cue := range followUpCues {
		if strings.Contains(q, cue) {
			return true
		}
	}
	return false
}
