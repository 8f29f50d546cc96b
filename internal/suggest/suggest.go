// ABOUTME: "Did you mean" hints for context tags, event names, and emotion IDs
// ABOUTME: Thin wrapper over sahilm/fuzzy ranking candidates by subsequence score

package suggest

import (
	"fmt"

	"github.com/sahilm/fuzzy"
)

// Match is one ranked candidate.
type Match struct {
	Str   string
	Index int
	Score int
}

// Find ranks candidates against pattern, best first.
func Find(pattern string, candidates []string) []Match {
	results := fuzzy.Find(pattern, candidates)
	out := make([]Match, len(results))
	for i, r := range results {
		out[i] = Match{Str: r.Str, Index: r.Index, Score: r.Score}
	}
	return out
}

// Closest returns the best candidate for pattern, if any matches.
func Closest(pattern string, candidates []string) (string, bool) {
	if pattern == "" {
		return "", false
	}
	m := Find(pattern, candidates)
	if len(m) == 0 {
		return "", false
	}
	return m[0].Str, true
}

// Hint formats a warning for an unknown name of the given kind.
//
//	unknown context "lerning" (did you mean "learning_context"?)
func Hint(kind, got string, candidates []string) string {
	if best, ok := Closest(got, candidates); ok {
		return fmt.Sprintf("unknown %s %q (did you mean %q?)", kind, got, best)
	}
	return fmt.Sprintf("unknown %s %q", kind, got)
}
