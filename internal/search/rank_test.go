package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankCompletionsPrefixMatchOutranksFuzzy(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	ranked := m.RankCompletions("her", []string{"heroFriends", "hero", "villain"})

	require.True(t, len(ranked) >= 2)
	names := []string{ranked[0].Name, ranked[1].Name}
	assert.Contains(t, names, "hero")
	assert.Contains(t, names, "heroFriends")
	assert.Greater(t, ranked[0].Score, scoreFor(ranked, "villain"))
}

func TestRankCompletionsIsMonotonicBySimilarity(t *testing.T) {
	m := NewMatcher(0.0)
	ranked := m.RankCompletions("zzzznotaprefix", []string{"abc", "abd", "xyz"})
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func scoreFor(ranked []RankedCandidate, name string) float64 {
	for _, r := range ranked {
		if r.Name == name {
			return r.Score
		}
	}
	return -1
}
