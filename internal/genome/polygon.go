package genome

// seedSpread is how far seeded vertices may stray from their polygon origin.
const seedSpread = 3

// Polygon is one translucent shape. Point order is the outline path; the
// path is closed implicitly from the last point back to the first.
type Polygon struct {
	Points []Vertex `json:"points"`
	Brush  Brush    `json:"brush"`
}

// NewPolygon seeds PointsPerPolygonMin vertices within a few pixels of a
// random origin so that new shapes start small.
func NewPolygon(m *Mutator) Polygon {
	s := m.Settings
	origin := m.randomVertex()
	points := make([]Vertex, 0, s.PointsPerPolygonMin)
	for i := 0; i < s.PointsPerPolygonMin; i++ {
		points = append(points, Vertex{
			X: clampInt(origin.X+m.between(-seedSpread, seedSpread), 0, s.Canvas.Width),
			Y: clampInt(origin.Y+m.between(-seedSpread, seedSpread), 0, s.Canvas.Height),
		})
	}
	return Polygon{Points: points, Brush: NewBrush(m)}
}

func (p Polygon) Clone() Polygon {
	return Polygon{
		Points: append([]Vertex(nil), p.Points...),
		Brush:  p.Brush,
	}
}

func (p *Polygon) PointCount() int {
	return len(p.Points)
}

// Mutate runs the polygon pass: structural point changes first, then the
// brush, then every vertex.
func (p *Polygon) Mutate(m *Mutator, d *Drawing) {
	if m.WillMutate(m.Settings.AddPointRate) {
		p.AddVertex(m, d)
	}
	if m.WillMutate(m.Settings.RemovePointRate) {
		p.RemoveVertex(m, d)
	}
	if p.Brush.Mutate(m) {
		d.SetDirty()
	}
	for i := range p.Points {
		if p.Points[i].Mutate(m) {
			d.SetDirty()
		}
	}
}

// AddVertex inserts the midpoint of two neighbouring vertices so the outline
// stays contiguous. Polygons with fewer than three points get a random point
// appended instead. It is a no-op when either the polygon or the drawing is
// at its point limit.
func (p *Polygon) AddVertex(m *Mutator, d *Drawing) bool {
	s := m.Settings
	if len(p.Points) >= s.PointsPerPolygonMax || d.PointCount() >= s.PointsMax {
		return false
	}

	if len(p.Points) < 3 {
		p.Points = append(p.Points, m.randomVertex())
	} else {
		idx := m.between(1, len(p.Points)-1)
		prev, next := p.Points[idx-1], p.Points[idx]
		mid := Vertex{X: (prev.X + next.X) / 2, Y: (prev.Y + next.Y) / 2}
		p.Points = append(p.Points, Vertex{})
		copy(p.Points[idx+1:], p.Points[idx:])
		p.Points[idx] = mid
	}
	d.SetDirty()
	return true
}

// RemoveVertex drops a random vertex unless that would take the polygon or
// the drawing below its minimum.
func (p *Polygon) RemoveVertex(m *Mutator, d *Drawing) bool {
	s := m.Settings
	if len(p.Points) <= s.PointsPerPolygonMin || d.PointCount() <= s.PointsMin {
		return false
	}

	idx := m.Rand.Intn(len(p.Points))
	p.Points = append(p.Points[:idx], p.Points[idx+1:]...)
	d.SetDirty()
	return true
}
