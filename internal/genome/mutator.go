package genome

import (
	"math/rand"
)

// Mutator is the probability-gated dispatch shared by every gene. It owns the
// random source, so a Mutator is not safe for concurrent use; give each
// goroutine its own.
type Mutator struct {
	Rand     *rand.Rand
	Settings Settings
	Jitter   JitterPolicy
}

// NewMutator returns a mutator seeded with seed. A nil jitter selects
// TieredJitter.
func NewMutator(seed int64, settings Settings, jitter JitterPolicy) *Mutator {
	if jitter == nil {
		jitter = TieredJitter{}
	}
	return &Mutator{
		Rand:     rand.New(rand.NewSource(seed)),
		Settings: settings,
		Jitter:   jitter,
	}
}

// WillMutate reports true with probability 1/rate.
func (m *Mutator) WillMutate(rate int) bool {
	if rate <= 1 {
		return true
	}
	return m.Rand.Intn(rate) == 0
}

// between returns a uniform integer in [lo, hi].
func (m *Mutator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + m.Rand.Intn(hi-lo+1)
}

func (m *Mutator) randomVertex() Vertex {
	return Vertex{
		X: m.between(0, m.Settings.Canvas.Width),
		Y: m.between(0, m.Settings.Canvas.Height),
	}
}
