package genome

// Brush is the RGBA fill of one polygon. Channels are kept in [0, 255].
type Brush struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a"`
}

// NewBrush returns a random opaque-ish color with alpha drawn from the
// configured seeding range.
func NewBrush(m *Mutator) Brush {
	return Brush{
		R: m.between(0, 255),
		G: m.between(0, 255),
		B: m.between(0, 255),
		A: m.between(m.Settings.AlphaMin, m.Settings.AlphaMax),
	}
}

// Mutate nudges each channel independently, gated by the color rate, and
// reports whether anything changed.
func (b *Brush) Mutate(m *Mutator) bool {
	changed := false
	for _, ch := range []*int{&b.R, &b.G, &b.B, &b.A} {
		if !m.WillMutate(m.Settings.ColorRate) {
			continue
		}
		delta := m.between(-m.Settings.ColorDelta, m.Settings.ColorDelta)
		next := clampInt(*ch+delta, 0, 255)
		if next != *ch {
			*ch = next
			changed = true
		}
	}
	return changed
}
