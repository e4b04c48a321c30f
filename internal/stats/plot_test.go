package stats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/plotter"
)

func TestHistoryXYsDrawsSteps(t *testing.T) {
	got := HistoryXYs(sampleHistory(), 100)
	want := plotter.XYs{
		{X: 0, Y: 1000},
		{X: 12, Y: 1000}, {X: 12, Y: 800},
		{X: 40, Y: 800}, {X: 40, Y: 750},
		{X: 100, Y: 750},
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected points: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("point %d: got %v want %v", i, got[i], want[i])
		}
	}

	if n := len(HistoryXYs(sampleHistory(), 40)); n != 5 {
		t.Fatalf("expected no extension at the last acceptance, got %d points", n)
	}
}

func TestPlotHistoryWritesImage(t *testing.T) {
	for _, name := range []string{"fitness.png", "fitness.svg"} {
		path := filepath.Join(t.TempDir(), name)
		if err := PlotHistory(sampleHistory(), 100, "run", path); err != nil {
			t.Fatalf("plot %s: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
}

func TestPlotHistoryRejectsEmptyHistory(t *testing.T) {
	err := PlotHistory(nil, 0, "run", filepath.Join(t.TempDir(), "fitness.png"))
	if !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("expected empty history error, got %v", err)
	}
}
