package normalize

import (
	"math/rand"

	"quizcraft/internal/domain"
)

// shuffleAttempts bounds the re-shuffle loop for tiny inputs, where a random
// permutation frequently lands on the identity.
const shuffleAttempts = 16

// ShuffleRight returns a copy of pairs with the right-hand column values
// permuted via Fisher-Yates. Left-hand order is preserved, so the answer-key
// mapping derived from the original pairs stays valid. For two or more pairs
// with at least two distinct right values, the result is guaranteed to differ
// from the input.
func ShuffleRight(pairs []domain.MatchingPair) []domain.MatchingPair {
	out := make([]domain.MatchingPair, len(pairs))
	copy(out, pairs)
	if len(out) < 2 || allRightsEqual(out) {
		return out
	}

	for attempt := 0; attempt < shuffleAttempts; attempt++ {
		for i := len(out) - 1; i > 0; i-- {
			j := rand.Intn(i + 1)
			out[i].Right, out[j].Right = out[j].Right, out[i].Right
		}
		if !pairsIdentical(out, pairs) {
			return out
		}
	}

	// The attempt budget ran out on the identity permutation every time;
	// force a difference with a single rotation of the right column.
	last := out[len(out)-1].Right
	for i := len(out) - 1; i > 0; i-- {
		out[i].Right = out[i-1].Right
	}
	out[0].Right = last
	return out
}

func allRightsEqual(pairs []domain.MatchingPair) bool {
	for _, p := range pairs[1:] {
		if p.Right != pairs[0].Right {
			return false
		}
	}
	return true
}
