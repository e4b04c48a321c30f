package raster

import (
	"image/color"
	"testing"

	"evoimage/internal/document"
	"evoimage/internal/genome"
)

var canvas = genome.Bounds{Width: 200, Height: 200}

func square(x0, y0, x1, y1 int, b genome.Brush) genome.Polygon {
	return genome.Polygon{
		Points: []genome.Vertex{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}},
		Brush:  b,
	}
}

func TestRenderEmptyDrawingIsBlack(t *testing.T) {
	img := NewRenderer(canvas).Render(&genome.Drawing{}, 20, 10)
	if img.Rect.Dx() != 20 || img.Rect.Dy() != 10 {
		t.Fatalf("unexpected size: %v", img.Rect)
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			if got := img.RGBAAt(x, y); got != (color.RGBA{A: 255}) {
				t.Fatalf("pixel (%d, %d): got %+v want opaque black", x, y, got)
			}
		}
	}
}

func TestRenderFillsOpaquePolygon(t *testing.T) {
	d := &genome.Drawing{Polygons: []genome.Polygon{
		square(50, 50, 150, 150, genome.Brush{R: 255, G: 10, B: 20, A: 255}),
	}}
	img := NewRenderer(canvas).Render(d, 200, 200)

	if got := img.RGBAAt(100, 100); got != (color.RGBA{R: 255, G: 10, B: 20, A: 255}) {
		t.Fatalf("inside pixel: %+v", got)
	}
	if got := img.RGBAAt(10, 10); got != (color.RGBA{A: 255}) {
		t.Fatalf("outside pixel: %+v", got)
	}
}

func TestRenderBlendsInPaintOrder(t *testing.T) {
	d := &genome.Drawing{Polygons: []genome.Polygon{
		square(0, 0, 200, 200, genome.Brush{R: 255, A: 255}),
		square(0, 0, 200, 200, genome.Brush{B: 255, A: 128}),
	}}
	img := NewRenderer(canvas).Render(d, 50, 50)
	got := img.RGBAAt(25, 25)
	if got.B < 120 || got.B > 135 || got.R < 120 || got.R > 135 || got.A != 255 {
		t.Fatalf("expected a half blend of red under blue, got %+v", got)
	}
}

func TestRenderScalesToOutputSize(t *testing.T) {
	d := &genome.Drawing{Polygons: []genome.Polygon{
		square(0, 0, 100, 100, genome.Brush{G: 255, A: 255}),
	}}
	img := NewRenderer(canvas).Render(d, 400, 400)
	if got := img.RGBAAt(190, 190); got.G != 255 {
		t.Fatalf("expected scaled fill at (190, 190), got %+v", got)
	}
	if got := img.RGBAAt(210, 210); got.G != 0 {
		t.Fatalf("expected no fill at (210, 210), got %+v", got)
	}
}

func TestRenderDocumentMatchesRender(t *testing.T) {
	d := &genome.Drawing{Polygons: []genome.Polygon{
		{
			Points: []genome.Vertex{{X: 10, Y: 10}, {X: 190, Y: 40}, {X: 60, Y: 180}},
			Brush:  genome.Brush{R: 200, G: 100, B: 50, A: 60},
		},
		square(20, 30, 120, 90, genome.Brush{R: 5, G: 250, B: 90, A: 45}),
	}}
	want := NewRenderer(canvas).Render(d, 400, 300)
	got := RenderDocument(document.FromDrawing(d, canvas), 400, 300)

	for i := range want.Pix {
		delta := int(want.Pix[i]) - int(got.Pix[i])
		if delta < -1 || delta > 1 {
			t.Fatalf("pixel byte %d differs: %d vs %d", i, want.Pix[i], got.Pix[i])
		}
	}
}

func TestRenderClampsDegenerateSizes(t *testing.T) {
	img := RenderDocument(document.Document{}, 0, -3)
	if img.Rect.Dx() != MinSize || img.Rect.Dy() != MinSize {
		t.Fatalf("unexpected size: %v", img.Rect)
	}
}
