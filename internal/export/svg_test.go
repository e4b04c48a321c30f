package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"evoimage/internal/document"
)

func sampleDocument() document.Document {
	return document.Document{Polygons: []document.Polygon{
		{
			Color:  document.Color{R: 1, G: 0.5, B: 0, A: 0.25},
			Points: []document.Point{{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 0.5, Y: 1}},
		},
		{
			Color:  document.Color{R: 0, G: 0, B: 1, A: 1},
			Points: []document.Point{{X: 0.1, Y: 0.1}, {X: 0.2, Y: 0.1}, {X: 0.2, Y: 0.2}},
		},
	}}
}

func TestWriteSVGScalesAndStylesPolygons(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, sampleDocument(), 400, 200); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`width="400" height="200"`,
		`points="0,0 200,0 200,200`,
		`fill:rgb(255,128,0);fill-opacity:0.2500`,
		`points="40,20 80,20 80,40`,
		`fill:rgb(0,0,255);fill-opacity:1.0000`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "fill:rgb(255,128,0)") > strings.Index(out, "fill:rgb(0,0,255)") {
		t.Fatal("polygons must keep document order")
	}
}

func TestWriteSVGRejectsDegenerateSize(t *testing.T) {
	if err := WriteSVG(&bytes.Buffer{}, sampleDocument(), 0, 10); err == nil {
		t.Fatal("expected size error")
	}
}

func TestWriteSVGFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	if err := WriteSVGFile(path, sampleDocument(), 200, 200); err != nil {
		t.Fatalf("write svg file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if strings.Count(string(data), "<polygon") != 2 {
		t.Fatalf("unexpected svg:\n%s", data)
	}
}
