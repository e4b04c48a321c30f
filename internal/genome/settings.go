package genome

import (
	"errors"
	"fmt"
)

// Bounds is the fixed canvas evolution happens on. Vertex coordinates live in
// [0, Width] x [0, Height].
type Bounds struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Settings holds the structural limits and mutation rates of a run. Rates are
// "one in N" gates: a rate of 700 fires with probability 1/700.
type Settings struct {
	Canvas Bounds

	PolygonsMin         int
	PolygonsMax         int
	PointsPerPolygonMin int
	PointsPerPolygonMax int
	PointsMin           int
	PointsMax           int

	AddPolygonRate    int
	RemovePolygonRate int
	MovePolygonRate   int
	AddPointRate      int
	RemovePointRate   int

	ColorRate  int
	ColorDelta int
	AlphaMin   int
	AlphaMax   int

	MovePointMaxRate  int
	MovePointMidRate  int
	MovePointMinRate  int
	MovePointRangeMid int
	MovePointRangeMin int
}

const (
	DefaultCanvasSize          = 200
	DefaultPolygonsMax         = 50
	DefaultPointsPerPolygonMax = 20
)

func DefaultSettings() Settings {
	return Settings{
		Canvas:              Bounds{Width: DefaultCanvasSize, Height: DefaultCanvasSize},
		PolygonsMin:         1,
		PolygonsMax:         DefaultPolygonsMax,
		PointsPerPolygonMin: 3,
		PointsPerPolygonMax: DefaultPointsPerPolygonMax,
		PointsMin:           0,
		PointsMax:           1500,
		AddPolygonRate:      700,
		RemovePolygonRate:   1500,
		MovePolygonRate:     700,
		AddPointRate:        1500,
		RemovePointRate:     1500,
		ColorRate:           1500,
		ColorDelta:          16,
		AlphaMin:            30,
		AlphaMax:            60,
		MovePointMaxRate:    1500,
		MovePointMidRate:    1500,
		MovePointMinRate:    1500,
		MovePointRangeMid:   20,
		MovePointRangeMin:   3,
	}
}

var ErrInvalidSettings = errors.New("invalid genome settings")

func (s Settings) Validate() error {
	if s.Canvas.Width <= 0 || s.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas must be positive, got %dx%d", ErrInvalidSettings, s.Canvas.Width, s.Canvas.Height)
	}
	if s.PolygonsMin < 0 || s.PolygonsMin > s.PolygonsMax {
		return fmt.Errorf("%w: polygons range [%d, %d]", ErrInvalidSettings, s.PolygonsMin, s.PolygonsMax)
	}
	if s.PointsPerPolygonMin < 1 || s.PointsPerPolygonMin > s.PointsPerPolygonMax {
		return fmt.Errorf("%w: points per polygon range [%d, %d]", ErrInvalidSettings, s.PointsPerPolygonMin, s.PointsPerPolygonMax)
	}
	if s.PointsMin < 0 || s.PointsMin > s.PointsMax {
		return fmt.Errorf("%w: points range [%d, %d]", ErrInvalidSettings, s.PointsMin, s.PointsMax)
	}
	if seeded := s.PolygonsMin * s.PointsPerPolygonMin; seeded > s.PointsMax || seeded < s.PointsMin {
		return fmt.Errorf("%w: initial drawing holds %d points, outside [%d, %d]", ErrInvalidSettings, seeded, s.PointsMin, s.PointsMax)
	}
	rates := map[string]int{
		"add polygon":    s.AddPolygonRate,
		"remove polygon": s.RemovePolygonRate,
		"move polygon":   s.MovePolygonRate,
		"add point":      s.AddPointRate,
		"remove point":   s.RemovePointRate,
		"color":          s.ColorRate,
		"move point max": s.MovePointMaxRate,
		"move point mid": s.MovePointMidRate,
		"move point min": s.MovePointMinRate,
	}
	for name, rate := range rates {
		if rate < 1 {
			return fmt.Errorf("%w: %s rate must be >= 1, got %d", ErrInvalidSettings, name, rate)
		}
	}
	if s.ColorDelta < 0 || s.MovePointRangeMid < 0 || s.MovePointRangeMin < 0 {
		return fmt.Errorf("%w: mutation ranges must be >= 0", ErrInvalidSettings)
	}
	if s.AlphaMin < 0 || s.AlphaMax > 255 || s.AlphaMin > s.AlphaMax {
		return fmt.Errorf("%w: alpha range [%d, %d]", ErrInvalidSettings, s.AlphaMin, s.AlphaMax)
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
