package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrInvalidDocument = errors.New("invalid genome document")

// FieldError reports the JSON path of the first field that failed schema
// validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidDocument
}

// Decode parses and validates a document. Nothing is returned unless every
// required field is present, has the right type and is inside [0, 1].
func Decode(data []byte) (Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	root, ok := raw.(map[string]any)
	if !ok {
		return Document{}, &FieldError{Field: "$", Reason: "must be an object"}
	}

	rawPolygons, ok := root["polygons"]
	if !ok {
		return Document{}, &FieldError{Field: "polygons", Reason: "missing"}
	}
	polygons, ok := rawPolygons.([]any)
	if !ok {
		return Document{}, &FieldError{Field: "polygons", Reason: "must be an array"}
	}

	doc := Document{Polygons: make([]Polygon, 0, len(polygons))}
	for i, item := range polygons {
		p, err := decodePolygon(fmt.Sprintf("polygons[%d]", i), item)
		if err != nil {
			return Document{}, err
		}
		doc.Polygons = append(doc.Polygons, p)
	}
	return doc, nil
}

// ReadFile loads and validates a document from disk.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read genome document: %w", err)
	}
	doc, err := Decode(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Write encodes doc to w.
func Write(w io.Writer, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteFile encodes doc to path.
func WriteFile(path string, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write genome document: %w", err)
	}
	return nil
}

func decodePolygon(path string, v any) (Polygon, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Polygon{}, &FieldError{Field: path, Reason: "must be an object"}
	}

	rawColor, ok := obj["color"]
	if !ok {
		return Polygon{}, &FieldError{Field: path + ".color", Reason: "missing"}
	}
	colorObj, ok := rawColor.(map[string]any)
	if !ok {
		return Polygon{}, &FieldError{Field: path + ".color", Reason: "must be an object"}
	}
	var c Color
	for _, ch := range []struct {
		name string
		dst  *float64
	}{{"r", &c.R}, {"g", &c.G}, {"b", &c.B}, {"a", &c.A}} {
		value, err := unitField(path+".color."+ch.name, colorObj, ch.name)
		if err != nil {
			return Polygon{}, err
		}
		*ch.dst = value
	}

	rawPoints, ok := obj["points"]
	if !ok {
		return Polygon{}, &FieldError{Field: path + ".points", Reason: "missing"}
	}
	points, ok := rawPoints.([]any)
	if !ok {
		return Polygon{}, &FieldError{Field: path + ".points", Reason: "must be an array"}
	}
	if len(points) == 0 {
		return Polygon{}, &FieldError{Field: path + ".points", Reason: "must not be empty"}
	}

	out := Polygon{Color: c, Points: make([]Point, 0, len(points))}
	for j, item := range points {
		pointPath := fmt.Sprintf("%s.points[%d]", path, j)
		pointObj, ok := item.(map[string]any)
		if !ok {
			return Polygon{}, &FieldError{Field: pointPath, Reason: "must be an object"}
		}
		x, err := unitField(pointPath+".x", pointObj, "x")
		if err != nil {
			return Polygon{}, err
		}
		y, err := unitField(pointPath+".y", pointObj, "y")
		if err != nil {
			return Polygon{}, err
		}
		out.Points = append(out.Points, Point{X: x, Y: y})
	}
	return out, nil
}

func unitField(path string, obj map[string]any, key string) (float64, error) {
	raw, ok := obj[key]
	if !ok {
		return 0, &FieldError{Field: path, Reason: "missing"}
	}
	value, ok := raw.(float64)
	if !ok {
		return 0, &FieldError{Field: path, Reason: "must be a number"}
	}
	if value < 0 || value > 1 {
		return 0, &FieldError{Field: path, Reason: fmt.Sprintf("%g outside [0, 1]", value)}
	}
	return value, nil
}
