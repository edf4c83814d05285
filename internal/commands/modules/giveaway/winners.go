package giveaway

import "math/rand"

// pickWinners draws up to count distinct winners from entrants. The input
// slice is left untouched.
func pickWinners(entrants []string, count int) []string {
	if count <= 0 || len(entrants) == 0 {
		return nil
	}

	pool := make([]string, len(entrants))
	copy(pool, entrants)
	rand.Shuffle(len(pool), func(a, b int) {
		pool[a], pool[b] = pool[b], pool[a]
	})

	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count]
}
