package stats

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"evoimage/internal/model"
)

const (
	PlotWidth  = 6 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

// HistoryXYs turns a history into a step series: the champion score holds
// between acceptances, so each point is preceded by the previous score at
// the same generation. lastGeneration extends the final score to the end of
// the run when it is past the last acceptance.
func HistoryXYs(history []model.FitnessPoint, lastGeneration int) plotter.XYs {
	pts := make(plotter.XYs, 0, 2*len(history)+1)
	for i, point := range history {
		if i > 0 {
			pts = append(pts, plotter.XY{X: float64(point.Generation), Y: float64(history[i-1].Score)})
		}
		pts = append(pts, plotter.XY{X: float64(point.Generation), Y: float64(point.Score)})
	}
	if n := len(history); n > 0 && lastGeneration > history[n-1].Generation {
		pts = append(pts, plotter.XY{X: float64(lastGeneration), Y: float64(history[n-1].Score)})
	}
	return pts
}

// PlotHistory saves the champion score against generation. The image format
// follows the extension of outPath (png, svg, pdf, ...).
func PlotHistory(history []model.FitnessPoint, lastGeneration int, title, outPath string) error {
	if len(history) == 0 {
		return ErrEmptyHistory
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Difference"

	line, err := plotter.NewLine(HistoryXYs(history, lastGeneration))
	if err != nil {
		return err
	}
	accepted, err := plotter.NewScatter(acceptedXYs(history))
	if err != nil {
		return err
	}
	accepted.GlyphStyle.Radius = vg.Points(1.5)

	p.Add(plotter.NewGrid(), line, accepted)
	p.Legend.Add("champion", line)
	p.Legend.Top = true

	if err := p.Save(PlotWidth, PlotHeight, outPath); err != nil {
		return fmt.Errorf("save plot %s: %w", outPath, err)
	}
	return nil
}

func acceptedXYs(history []model.FitnessPoint) plotter.XYs {
	pts := make(plotter.XYs, len(history))
	for i, point := range history {
		pts[i].X = float64(point.Generation)
		pts[i].Y = float64(point.Score)
	}
	return pts
}
