package search

import (
	"sort"
	"strings"

	"github.com/graphqlintel/graphqlintel/internal/search/semantic"
)

// RankedCandidate is one completion candidate scored against a query.
type RankedCandidate struct {
	Name  string
	Score float64
}

// RankCompletions orders candidates for a completion query (SPEC_FULL.md
// §8's testable property "edit-distance ranking is monotonic; exact
// matches always outrank fuzzy ones"). An exact prefix match always
// scores above a stem match, which always scores above a pure
// fuzzy-similarity match.
func (m Matcher) RankCompletions(query string, candidates []string) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(candidates))
	stemmedQuery := semantic.Stem(strings.ToLower(query))

	for _, c := range candidates {
		lower := strings.ToLower(c)
		var score float64
		switch {
		case query == "":
			score = 0
		case strings.HasPrefix(lower, strings.ToLower(query)):
			score = 3.0
		case semantic.Stem(lower) == stemmedQuery && stemmedQuery != "":
			score = 2.0
		default:
			score = m.Similarity(query, c)
		}
		ranked = append(ranked, RankedCandidate{Name: c, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}
