package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"evoimage/internal/document"
)

const MinSize = 1

// WriteSVG draws the document as SVG polygons over a black background. It is
// the vector counterpart of the raster renderer: coordinates scale by the
// output size and colors blend with fill-opacity in document order.
func WriteSVG(w io.Writer, doc document.Document, width, height int) error {
	if width < MinSize || height < MinSize {
		return fmt.Errorf("svg size must be at least %dx%d, got %dx%d", MinSize, MinSize, width, height)
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:rgb(0,0,0)")
	for _, p := range doc.Polygons {
		if len(p.Points) == 0 {
			continue
		}
		xs := make([]int, len(p.Points))
		ys := make([]int, len(p.Points))
		for i, pt := range p.Points {
			xs[i] = int(math.Round(pt.X * float64(width)))
			ys[i] = int(math.Round(pt.Y * float64(height)))
		}
		canvas.Polygon(xs, ys, fillStyle(p.Color))
	}
	canvas.End()
	return nil
}

func WriteSVGFile(path string, doc document.Document, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSVG(f, doc, width, height); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func fillStyle(c document.Color) string {
	return fmt.Sprintf("fill:rgb(%d,%d,%d);fill-opacity:%s",
		channel(c.R), channel(c.G), channel(c.B), strconv.FormatFloat(clamp01(c.A), 'f', 4, 64))
}

func channel(v float64) int {
	return int(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
