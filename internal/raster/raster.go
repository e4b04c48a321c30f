// Package raster turns genomes and genome documents into pixel buffers.
// Polygons are filled in paint order over an opaque black background with
// anti-aliased edges.
package raster

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"

	"evoimage/internal/document"
	"evoimage/internal/genome"
)

// MinSize is the smallest accepted output dimension.
const MinSize = 1

// Renderer rasterizes drawings whose coordinates live on Canvas. Output
// dimensions may differ from the canvas; coordinates are scaled to fit.
type Renderer struct {
	Canvas genome.Bounds
}

func NewRenderer(canvas genome.Bounds) Renderer {
	return Renderer{Canvas: canvas}
}

// Render paints d at width x height.
func (r Renderer) Render(d *genome.Drawing, width, height int) *image.RGBA {
	width, height = max(width, MinSize), max(height, MinSize)
	dst := newCanvas(width, height)
	if d == nil {
		return dst
	}
	sx := float32(width) / float32(r.Canvas.Width)
	sy := float32(height) / float32(r.Canvas.Height)

	z := vector.NewRasterizer(width, height)
	for i := range d.Polygons {
		p := &d.Polygons[i]
		if len(p.Points) == 0 {
			continue
		}
		z.Reset(width, height)
		z.MoveTo(float32(p.Points[0].X)*sx, float32(p.Points[0].Y)*sy)
		for _, v := range p.Points[1:] {
			z.LineTo(float32(v.X)*sx, float32(v.Y)*sy)
		}
		z.ClosePath()
		fill(z, dst, color.NRGBA{
			R: uint8(p.Brush.R),
			G: uint8(p.Brush.G),
			B: uint8(p.Brush.B),
			A: uint8(p.Brush.A),
		})
	}
	return dst
}

// RenderDocument paints a normalized genome document at width x height,
// mapping (x, y) to (x*width, y*height).
func RenderDocument(doc document.Document, width, height int) *image.RGBA {
	width, height = max(width, MinSize), max(height, MinSize)
	dst := newCanvas(width, height)
	w, h := float32(width), float32(height)

	z := vector.NewRasterizer(width, height)
	for _, p := range doc.Polygons {
		if len(p.Points) == 0 {
			continue
		}
		z.Reset(width, height)
		z.MoveTo(float32(p.Points[0].X)*w, float32(p.Points[0].Y)*h)
		for _, pt := range p.Points[1:] {
			z.LineTo(float32(pt.X)*w, float32(pt.Y)*h)
		}
		z.ClosePath()
		fill(z, dst, color.NRGBA{
			R: unit8(p.Color.R),
			G: unit8(p.Color.G),
			B: unit8(p.Color.B),
			A: unit8(p.Color.A),
		})
	}
	return dst
}

func newCanvas(width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return dst
}

func fill(z *vector.Rasterizer, dst *image.RGBA, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	z.DrawOp = draw.Over
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

func unit8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
