package genome

import (
	"fmt"
)

// Drawing is the genome: a paint-ordered stack of polygons. Index 0 is
// painted first and therefore sits furthest back.
type Drawing struct {
	Polygons []Polygon `json:"polygons"`

	dirty bool
}

// NewDrawing seeds PolygonsMin polygons.
func NewDrawing(m *Mutator) *Drawing {
	d := &Drawing{Polygons: make([]Polygon, 0, m.Settings.PolygonsMin)}
	for i := 0; i < m.Settings.PolygonsMin; i++ {
		d.Polygons = append(d.Polygons, NewPolygon(m))
	}
	d.dirty = true
	return d
}

// Clone returns a fully independent copy.
func (d *Drawing) Clone() *Drawing {
	out := &Drawing{
		Polygons: make([]Polygon, len(d.Polygons)),
		dirty:    d.dirty,
	}
	for i := range d.Polygons {
		out.Polygons[i] = d.Polygons[i].Clone()
	}
	return out
}

func (d *Drawing) Dirty() bool {
	return d.dirty
}

func (d *Drawing) SetDirty() {
	d.dirty = true
}

func (d *Drawing) ClearDirty() {
	d.dirty = false
}

// PointCount is the global vertex total across all polygons.
func (d *Drawing) PointCount() int {
	sum := 0
	for i := range d.Polygons {
		sum += len(d.Polygons[i].Points)
	}
	return sum
}

// Mutate runs one full mutation pass: polygon add, remove and reorder, each
// behind its own gate, followed by the per-polygon pass.
func (d *Drawing) Mutate(m *Mutator) {
	if m.WillMutate(m.Settings.AddPolygonRate) {
		d.AddPolygon(m)
	}
	if m.WillMutate(m.Settings.RemovePolygonRate) {
		d.RemovePolygon(m)
	}
	if m.WillMutate(m.Settings.MovePolygonRate) {
		d.MovePolygon(m)
	}
	for i := range d.Polygons {
		d.Polygons[i].Mutate(m, d)
	}
}

// AddPolygon inserts a freshly seeded polygon. Drawings with more than two
// polygons get it at a random depth; smaller ones append so their paint
// order stays put. The new polygon must also fit the global point budget.
func (d *Drawing) AddPolygon(m *Mutator) bool {
	s := m.Settings
	if len(d.Polygons) >= s.PolygonsMax || d.PointCount()+s.PointsPerPolygonMin > s.PointsMax {
		return false
	}

	poly := NewPolygon(m)
	if len(d.Polygons) > 2 {
		idx := m.Rand.Intn(len(d.Polygons))
		d.Polygons = append(d.Polygons, Polygon{})
		copy(d.Polygons[idx+1:], d.Polygons[idx:])
		d.Polygons[idx] = poly
	} else {
		d.Polygons = append(d.Polygons, poly)
	}
	d.SetDirty()
	return true
}

// RemovePolygon drops a random polygon. Removal that would push the global
// point total under PointsMin is skipped.
func (d *Drawing) RemovePolygon(m *Mutator) bool {
	s := m.Settings
	if len(d.Polygons) <= s.PolygonsMin {
		return false
	}

	idx := m.Rand.Intn(len(d.Polygons))
	if d.PointCount()-len(d.Polygons[idx].Points) < s.PointsMin {
		return false
	}
	d.Polygons = append(d.Polygons[:idx], d.Polygons[idx+1:]...)
	d.SetDirty()
	return true
}

// MovePolygon swaps the paint order of two random polygons.
func (d *Drawing) MovePolygon(m *Mutator) bool {
	if len(d.Polygons) < 2 {
		return false
	}

	a := m.Rand.Intn(len(d.Polygons))
	b := m.Rand.Intn(len(d.Polygons))
	if a == b {
		return false
	}
	d.Polygons[a], d.Polygons[b] = d.Polygons[b], d.Polygons[a]
	d.SetDirty()
	return true
}

// Validate checks every structural invariant of the drawing against s.
func (d *Drawing) Validate(s Settings) error {
	if n := len(d.Polygons); n < s.PolygonsMin || n > s.PolygonsMax {
		return fmt.Errorf("polygon count %d outside [%d, %d]", n, s.PolygonsMin, s.PolygonsMax)
	}
	if n := d.PointCount(); n < s.PointsMin || n > s.PointsMax {
		return fmt.Errorf("point count %d outside [%d, %d]", n, s.PointsMin, s.PointsMax)
	}
	for i, p := range d.Polygons {
		if n := len(p.Points); n < s.PointsPerPolygonMin || n > s.PointsPerPolygonMax {
			return fmt.Errorf("polygon %d: point count %d outside [%d, %d]", i, n, s.PointsPerPolygonMin, s.PointsPerPolygonMax)
		}
		for j, v := range p.Points {
			if v.X < 0 || v.X > s.Canvas.Width || v.Y < 0 || v.Y > s.Canvas.Height {
				return fmt.Errorf("polygon %d point %d: (%d, %d) outside canvas %dx%d", i, j, v.X, v.Y, s.Canvas.Width, s.Canvas.Height)
			}
		}
		b := p.Brush
		for _, ch := range []int{b.R, b.G, b.B, b.A} {
			if ch < 0 || ch > 255 {
				return fmt.Errorf("polygon %d: brush channel %d outside [0, 255]", i, ch)
			}
		}
	}
	return nil
}
