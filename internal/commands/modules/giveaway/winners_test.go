package giveaway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickWinnersDrawsDistinctEntrants(t *testing.T) {
	entrants := []string{"a", "b", "c", "d", "e"}

	winners := pickWinners(entrants, 3)
	assert.Len(t, winners, 3)

	seen := make(map[string]bool)
	for _, w := range winners {
		assert.False(t, seen[w], "winner %s drawn twice", w)
		seen[w] = true
		assert.Contains(t, entrants, w)
	}
}

func TestPickWinnersCapsAtEntrantCount(t *testing.T) {
	winners := pickWinners([]string{"a", "b"}, 5)
	assert.Len(t, winners, 2)
}

func TestPickWinnersEmptyPool(t *testing.T) {
	assert.Nil(t, pickWinners(nil, 1))
	assert.Nil(t, pickWinners([]string{"a"}, 0))
}

func TestPickWinnersDoesNotMutateInput(t *testing.T) {
	entrants := []string{"a", "b", "c"}
	_ = pickWinners(entrants, 2)
	assert.Equal(t, []string{"a", "b", "c"}, entrants)
}
