// Package semantic stems identifiers for fuzzy completion ranking, so
// "authenticate" and "authentication" normalize to the same root before
// internal/search scores them against a query prefix.
//
// Grounded on the teacher's internal/semantic.Stemmer
// (_keep/semantic.ref/stemmer.go), trimmed to the one algorithm the
// teacher actually wires (porter2) since no config surface in this
// project exposes a choice of stemming algorithm.
package semantic

import "github.com/surgebase/porter2"

// MinStemLength mirrors the teacher's default minimum word length below
// which stemming is skipped (short identifiers like "id" or "ok" stem
// to nonsense).
const MinStemLength = 3

// Stem reduces word to its root form. Words shorter than MinStemLength
// are returned unchanged.
func Stem(word string) string {
	if len(word) < MinStemLength {
		return word
	}
	return porter2.Stem(word)
}
