package genome

// Vertex is an integer canvas coordinate.
type Vertex struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Mutate perturbs the vertex with the mutator's jitter policy. The result is
// always inside the canvas.
func (v *Vertex) Mutate(m *Mutator) bool {
	next := m.Jitter.Jitter(m, *v)
	next.X = clampInt(next.X, 0, m.Settings.Canvas.Width)
	next.Y = clampInt(next.Y, 0, m.Settings.Canvas.Height)
	if next == *v {
		return false
	}
	*v = next
	return true
}

// JitterPolicy decides how far a single vertex moves in one mutation pass.
// Implementations may return out-of-bounds coordinates; Vertex.Mutate clamps.
type JitterPolicy interface {
	Name() string
	Jitter(m *Mutator, v Vertex) Vertex
}

// TieredJitter applies three independently gated moves in order: a full
// relocation anywhere on the canvas, a medium offset and a small offset.
type TieredJitter struct{}

func (TieredJitter) Name() string {
	return "tiered"
}

func (TieredJitter) Jitter(m *Mutator, v Vertex) Vertex {
	s := m.Settings
	if m.WillMutate(s.MovePointMaxRate) {
		v = m.randomVertex()
	}
	if m.WillMutate(s.MovePointMidRate) {
		v.X = clampInt(v.X+m.between(-s.MovePointRangeMid, s.MovePointRangeMid), 0, s.Canvas.Width)
		v.Y = clampInt(v.Y+m.between(-s.MovePointRangeMid, s.MovePointRangeMid), 0, s.Canvas.Height)
	}
	if m.WillMutate(s.MovePointMinRate) {
		v.X = clampInt(v.X+m.between(-s.MovePointRangeMin, s.MovePointRangeMin), 0, s.Canvas.Width)
		v.Y = clampInt(v.Y+m.between(-s.MovePointRangeMin, s.MovePointRangeMin), 0, s.Canvas.Height)
	}
	return v
}

// UniformJitter offsets both axes by a uniform amount in [-Radius, Radius]
// on every call.
type UniformJitter struct {
	Radius int
}

func (UniformJitter) Name() string {
	return "uniform"
}

func (j UniformJitter) Jitter(m *Mutator, v Vertex) Vertex {
	return Vertex{
		X: v.X + m.between(-j.Radius, j.Radius),
		Y: v.Y + m.between(-j.Radius, j.Radius),
	}
}

// JitterByName resolves a policy name as accepted on the command line.
func JitterByName(name string, radius int) (JitterPolicy, bool) {
	switch name {
	case "", "tiered":
		return TieredJitter{}, true
	case "uniform":
		if radius <= 0 {
			radius = 3
		}
		return UniformJitter{Radius: radius}, true
	default:
		return nil, false
	}
}
