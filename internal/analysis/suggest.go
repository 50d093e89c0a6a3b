package analysis

import (
	"fmt"

	"github.com/graphqlintel/graphqlintel/internal/search"
)

// suggestionMatcher scores "did you mean" candidates for unknown type,
// field, and fragment names surfaced in validation diagnostics.
var suggestionMatcher = search.NewMatcher(search.DefaultThreshold)

// withSuggestion appends a "did you mean %q?" clause to message if
// candidates contains a close match for name, per SPEC_FULL.md's
// "did you mean `Pokemon`?" diagnostic enrichment.
func withSuggestion(message, name string, candidates []string) string {
	if best := suggestionMatcher.SuggestOne(name, candidates); best != "" {
		return fmt.Sprintf("%s (did you mean %q?)", message, best)
	}
	return message
}
