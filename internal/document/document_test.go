package document

import (
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"evoimage/internal/genome"
)

func sampleDrawing() *genome.Drawing {
	return &genome.Drawing{Polygons: []genome.Polygon{
		{
			Points: []genome.Vertex{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 100, Y: 171}},
			Brush:  genome.Brush{R: 255, G: 0, B: 128, A: 40},
		},
		{
			Points: []genome.Vertex{{X: 13, Y: 7}, {X: 199, Y: 200}, {X: 1, Y: 150}, {X: 77, Y: 77}},
			Brush:  genome.Brush{R: 1, G: 2, B: 3, A: 255},
		},
	}}
}

var canvas = genome.Bounds{Width: 200, Height: 200}

func TestFromDrawingNormalizes(t *testing.T) {
	doc := FromDrawing(sampleDrawing(), canvas)
	if len(doc.Polygons) != 2 {
		t.Fatalf("unexpected polygon count: %d", len(doc.Polygons))
	}
	first := doc.Polygons[0]
	if first.Color.R != 1 || first.Color.G != 0 || math.Abs(first.Color.B-128.0/255) > 1e-12 {
		t.Fatalf("unexpected color: %+v", first.Color)
	}
	if first.Points[1] != (Point{X: 1, Y: 0}) || first.Points[2] != (Point{X: 0.5, Y: 0.855}) {
		t.Fatalf("unexpected points: %+v", first.Points)
	}
}

func TestRenderScaleDoublesCoordinates(t *testing.T) {
	d := sampleDrawing()
	doc := FromDrawing(d, canvas)
	for i, p := range doc.Polygons {
		for j, pt := range p.Points {
			want := d.Polygons[i].Points[j]
			if math.Abs(pt.X*400-2*float64(want.X)) > 1e-9 || math.Abs(pt.Y*400-2*float64(want.Y)) > 1e-9 {
				t.Fatalf("polygon %d point %d: got (%f, %f) want 2x(%d, %d)", i, j, pt.X*400, pt.Y*400, want.X, want.Y)
			}
		}
	}
}

func TestToDrawingRoundTrip(t *testing.T) {
	d := sampleDrawing()
	back := FromDrawing(d, canvas).ToDrawing(canvas)
	if !reflect.DeepEqual(back.Polygons, d.Polygons) {
		t.Fatalf("round trip mismatch\nactual=%+v\nexpected=%+v", back.Polygons, d.Polygons)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := FromDrawing(sampleDrawing(), canvas)
	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, doc) {
		t.Fatalf("roundtrip mismatch\nactual=%+v\nexpected=%+v", decoded, doc)
	}
}

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genome.json")
	doc := FromDrawing(sampleDrawing(), canvas)
	if err := WriteFile(path, doc); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(loaded, doc) {
		t.Fatal("file round trip mismatch")
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecodeRejectsInvalidDocuments(t *testing.T) {
	cases := []struct {
		name  string
		input string
		field string
	}{
		{"not object", `[]`, "$"},
		{"missing polygons", `{}`, "polygons"},
		{"polygons not array", `{"polygons": {}}`, "polygons"},
		{"polygon not object", `{"polygons": [3]}`, "polygons[0]"},
		{"missing color", `{"polygons": [{"points": [{"x": 0, "y": 0}]}]}`, "polygons[0].color"},
		{"missing alpha", `{"polygons": [{"color": {"r": 0, "g": 0, "b": 0}, "points": [{"x": 0, "y": 0}]}]}`, "polygons[0].color.a"},
		{"string channel", `{"polygons": [{"color": {"r": "1", "g": 0, "b": 0, "a": 0}, "points": [{"x": 0, "y": 0}]}]}`, "polygons[0].color.r"},
		{"missing points", `{"polygons": [{"color": {"r": 0, "g": 0, "b": 0, "a": 0}}]}`, "polygons[0].points"},
		{"points not array", `{"polygons": [{"color": {"r": 0, "g": 0, "b": 0, "a": 0}, "points": 1}]}`, "polygons[0].points"},
		{"empty points", `{"polygons": [{"color": {"r": 0, "g": 0, "b": 0, "a": 0}, "points": []}]}`, "polygons[0].points"},
		{"out of range", `{"polygons": [{"color": {"r": 0, "g": 0, "b": 0, "a": 0}, "points": [{"x": 0, "y": 0}, {"x": 1.5, "y": 0}]}]}`, "polygons[0].points[1].x"},
		{"missing y", `{"polygons": [{"color": {"r": 0, "g": 0, "b": 0, "a": 0}, "points": [{"x": 0}]}]}`, "polygons[0].points[0].y"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.input))
			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected field error, got %v", err)
			}
			if fieldErr.Field != tc.field {
				t.Fatalf("unexpected field: got=%s want=%s", fieldErr.Field, tc.field)
			}
			if !errors.Is(err, ErrInvalidDocument) {
				t.Fatal("expected error to match ErrInvalidDocument")
			}
		})
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"polygons": [`)); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected invalid document error, got %v", err)
	}
}

func TestDecodeAcceptsEmptyDrawing(t *testing.T) {
	doc, err := Decode([]byte(`{"polygons": []}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Polygons) != 0 {
		t.Fatalf("unexpected polygons: %+v", doc.Polygons)
	}
}
