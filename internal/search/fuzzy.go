// Package search provides typo-tolerant name suggestions for unknown
// type/field/fragment references in diagnostics ("did you mean
// `Pokemon`?"), and a fuzzy completion-ranking pass for field names.
//
// Grounded on the teacher's internal/semantic package — FuzzyMatcher
// (_keep/semantic.ref/fuzzy_matcher.go) for Jaro-Winkler scoring via
// go-edlib, adapted from the teacher's generic symbol-name matching to
// GraphQL type/field/fragment names.
package search

import (
	"sort"

	"github.com/hbollon/go-edlib"
)

// DefaultThreshold mirrors the teacher's TranslationDictionary default
// (_keep/semantic.ref/fuzzy_matcher.go: "Default from TranslationDictionary").
const DefaultThreshold = 0.80

// Matcher scores how similar two identifiers are, for surfacing "did you
// mean" suggestions against unknown names.
type Matcher struct {
	threshold float64
}

// NewMatcher creates a Matcher. A threshold outside (0,1] falls back to
// DefaultThreshold.
func NewMatcher(threshold float64) Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return Matcher{threshold: threshold}
}

// Similarity returns the Jaro-Winkler similarity of a and b, in [0,1].
func (m Matcher) Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0.0
	}
	return float64(score)
}

// Match is one candidate scored against a target name.
type Match struct {
	Name       string
	Similarity float64
}

// Suggest returns candidates whose similarity to target meets m's
// threshold, sorted by similarity descending then name ascending for a
// stable tie-break. target itself is excluded (it is, by construction,
// the unknown name a diagnostic is suggesting alternatives for).
func (m Matcher) Suggest(target string, candidates []string) []Match {
	var out []Match
	for _, c := range candidates {
		if c == target {
			continue
		}
		sim := m.Similarity(target, c)
		if sim >= m.threshold {
			out = append(out, Match{Name: c, Similarity: sim})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SuggestOne returns the single best "did you mean" suggestion for
// target among candidates, or "" if none clears the threshold — the
// shape internal/analysis's diagnostic messages want.
func (m Matcher) SuggestOne(target string, candidates []string) string {
	matches := m.Suggest(target, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Name
}
