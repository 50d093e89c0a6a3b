package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityIsOneForIdenticalStrings(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	assert.Equal(t, 1.0, m.Similarity("Pokemon", "Pokemon"))
}

func TestSimilarityIsZeroForEmptyInput(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	assert.Zero(t, m.Similarity("", "Pokemon"))
	assert.Zero(t, m.Similarity("Pokemon", ""))
}

func TestSuggestOneFindsCloseTypo(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	got := m.SuggestOne("Pokemn", []string{"Pokemon", "Trainer", "Move"})
	assert.Equal(t, "Pokemon", got)
}

func TestSuggestOneReturnsEmptyWhenNothingClears(t *testing.T) {
	m := NewMatcher(0.99)
	got := m.SuggestOne("xyz", []string{"Pokemon", "Trainer", "Move"})
	assert.Empty(t, got)
}

func TestSuggestExcludesExactTargetMatch(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	matches := m.Suggest("Pokemon", []string{"Pokemon", "Pokemons"})
	for _, match := range matches {
		assert.NotEqual(t, "Pokemon", match.Name)
	}
}

func TestSuggestSortsBySimilarityDescending(t *testing.T) {
	m := NewMatcher(0.5)
	matches := m.Suggest("Pokemon", []string{"Pokemonn", "Pokeon", "Pokemo"})
	require := func(cond bool) {
		if !cond {
			t.Fatalf("expected descending similarity order, got %+v", matches)
		}
	}
	for i := 1; i < len(matches); i++ {
		require(matches[i-1].Similarity >= matches[i].Similarity)
	}
}

func TestNewMatcherFallsBackToDefaultThreshold(t *testing.T) {
	m := NewMatcher(-1)
	assert.Equal(t, DefaultThreshold, m.threshold)
	m = NewMatcher(1.5)
	assert.Equal(t, DefaultThreshold, m.threshold)
}
