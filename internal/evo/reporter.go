package evo

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

type Event string

const (
	EventInit     Event = "init"
	EventProgress Event = "progress"
	EventDone     Event = "done"
)

// Progress is a diagnostic view of the champion. It carries no contract
// beyond being informative.
type Progress struct {
	Event      Event
	Generation int
	Score      uint64
	Polygons   int
	Points     int
	Accepted   int
	Elapsed    time.Duration
}

type Reporter interface {
	Report(p Progress)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Progress)

func (f ReporterFunc) Report(p Progress) {
	f(p)
}

// WriterReporter prints progress lines. Human mode groups digits for people
// watching a terminal; otherwise lines are key=value pairs for log scrapers.
type WriterReporter struct {
	mu    sync.Mutex
	w     io.Writer
	human bool
}

// NewWriterReporter picks human mode when w is a terminal.
func NewWriterReporter(w io.Writer) *WriterReporter {
	human := false
	if f, ok := w.(*os.File); ok {
		human = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &WriterReporter{w: w, human: human}
}

func NewHumanReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w, human: true}
}

func NewPlainReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

func (r *WriterReporter) Report(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.human {
		fmt.Fprintf(r.w, "event=%s generation=%d score=%d polygons=%d points=%d accepted=%d elapsed=%s\n",
			p.Event, p.Generation, p.Score, p.Polygons, p.Points, p.Accepted, p.Elapsed.Round(time.Millisecond))
		return
	}

	switch p.Event {
	case EventInit:
		fmt.Fprintf(r.w, "Initial difference = %s\n", humanize.Comma(int64(p.Score)))
	case EventProgress:
		fmt.Fprintf(r.w, "Current difference is %s at generation %s. %d polys, %d points\n",
			humanize.Comma(int64(p.Score)), humanize.Comma(int64(p.Generation)), p.Polygons, p.Points)
	case EventDone:
		fmt.Fprintf(r.w, "%s generations done in %s (%s accepted). Final difference = %s\n",
			humanize.Comma(int64(p.Generation)), p.Elapsed.Round(time.Second),
			humanize.Comma(int64(p.Accepted)), humanize.Comma(int64(p.Score)))
	}
}
