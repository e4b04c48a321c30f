package evo

// SelectBest folds scores left to right and keeps the first minimum: an
// incumbent is only replaced on a strict improvement, so ties go to the
// lowest index. It returns -1 for an empty slice.
func SelectBest(scores []uint64) (int, uint64) {
	if len(scores) == 0 {
		return -1, 0
	}
	best, bestScore := 0, scores[0]
	for i := 1; i < len(scores); i++ {
		if scores[i] < bestScore {
			best, bestScore = i, scores[i]
		}
	}
	return best, bestScore
}

// NextSnapshot is the first multiple of every strictly after generation.
// With every=100, an acceptance at 171 moves the threshold to 200.
func NextSnapshot(generation, every int) int {
	if every <= 0 {
		every = 1
	}
	return (generation/every + 1) * every
}
