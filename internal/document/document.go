// Package document is the persisted, resolution-independent form of a
// genome. Vertex coordinates are divided by the evolution canvas size and
// brush channels by 255, so every number in a document lies in [0, 1].
package document

import (
	"encoding/json"
	"math"

	"evoimage/internal/genome"
)

type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Polygon struct {
	Color  Color   `json:"color"`
	Points []Point `json:"points"`
}

// Document lists polygons in paint order. Each polygon's points form a path
// that is closed from the last point back to the first.
type Document struct {
	Polygons []Polygon `json:"polygons"`
}

// FromDrawing normalizes d against the canvas it evolved on.
func FromDrawing(d *genome.Drawing, canvas genome.Bounds) Document {
	doc := Document{Polygons: make([]Polygon, 0, len(d.Polygons))}
	w, h := float64(canvas.Width), float64(canvas.Height)
	for _, p := range d.Polygons {
		out := Polygon{
			Color: Color{
				R: float64(p.Brush.R) / 255,
				G: float64(p.Brush.G) / 255,
				B: float64(p.Brush.B) / 255,
				A: float64(p.Brush.A) / 255,
			},
			Points: make([]Point, 0, len(p.Points)),
		}
		for _, v := range p.Points {
			out.Points = append(out.Points, Point{X: float64(v.X) / w, Y: float64(v.Y) / h})
		}
		doc.Polygons = append(doc.Polygons, out)
	}
	return doc
}

// ToDrawing maps the document back onto an integer canvas. Values are
// rounded to the nearest unit and clamped into range.
func (doc Document) ToDrawing(canvas genome.Bounds) *genome.Drawing {
	d := &genome.Drawing{Polygons: make([]genome.Polygon, 0, len(doc.Polygons))}
	for _, p := range doc.Polygons {
		out := genome.Polygon{
			Brush: genome.Brush{
				R: scale(p.Color.R, 255),
				G: scale(p.Color.G, 255),
				B: scale(p.Color.B, 255),
				A: scale(p.Color.A, 255),
			},
			Points: make([]genome.Vertex, 0, len(p.Points)),
		}
		for _, pt := range p.Points {
			out.Points = append(out.Points, genome.Vertex{
				X: scale(pt.X, canvas.Width),
				Y: scale(pt.Y, canvas.Height),
			})
		}
		d.Polygons = append(d.Polygons, out)
	}
	d.SetDirty()
	return d
}

func scale(v float64, size int) int {
	n := int(math.Round(v * float64(size)))
	if n < 0 {
		return 0
	}
	if n > size {
		return size
	}
	return n
}

// Encode writes the document as indented JSON.
func Encode(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
