// Package fitness scores a rendered candidate against the target image. Lower
// scores are better and zero means the two images agree on every RGB value.
package fitness

import (
	"errors"
	"fmt"
	"image"
	"math"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

var ErrSizeMismatch = errors.New("image sizes differ")

// Evaluator computes the dissimilarity of two equal-sized pixel buffers.
type Evaluator interface {
	Name() string
	Score(target, candidate *image.RGBA) (uint64, error)
}

// New picks the partitioned evaluator when more than one worker is
// requested.
func New(workers int) Evaluator {
	if workers <= 1 {
		return Sequential{}
	}
	return Partitioned{Workers: workers}
}

// Sequential sums every row on the calling goroutine.
type Sequential struct{}

func (Sequential) Name() string {
	return "sequential"
}

func (Sequential) Score(target, candidate *image.RGBA) (uint64, error) {
	if err := checkSizes(target, candidate); err != nil {
		return 0, err
	}
	return sumRows(target, candidate, 0, target.Rect.Dy()), nil
}

// Partitioned splits the rows into contiguous bands and sums them on a
// bounded pool. The metric is a plain sum, so the result is identical to
// Sequential.
type Partitioned struct {
	Workers int
}

func (Partitioned) Name() string {
	return "partitioned"
}

func (p Partitioned) Score(target, candidate *image.RGBA) (uint64, error) {
	if err := checkSizes(target, candidate); err != nil {
		return 0, err
	}
	rows := target.Rect.Dy()
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > rows {
		workers = rows
	}
	if workers <= 1 {
		return sumRows(target, candidate, 0, rows), nil
	}

	band := (rows + workers - 1) / workers
	partials := pool.NewWithResults[uint64]().WithMaxGoroutines(workers)
	for start := 0; start < rows; start += band {
		start, end := start, min(start+band, rows)
		partials.Go(func() uint64 {
			return sumRows(target, candidate, start, end)
		})
	}

	var total uint64
	for _, partial := range partials.Wait() {
		total += partial
	}
	return total, nil
}

func checkSizes(target, candidate *image.RGBA) error {
	if target == nil || candidate == nil {
		return errors.New("target and candidate images are required")
	}
	tw, th := target.Rect.Dx(), target.Rect.Dy()
	cw, ch := candidate.Rect.Dx(), candidate.Rect.Dy()
	if tw != cw || th != ch {
		return fmt.Errorf("%w: target=%dx%d candidate=%dx%d", ErrSizeMismatch, tw, th, cw, ch)
	}
	return nil
}

// sumRows accumulates floor(euclidean RGB distance) over rows [y0, y1),
// counted from the top of each image.
func sumRows(target, candidate *image.RGBA, y0, y1 int) uint64 {
	width := target.Rect.Dx()
	var sum uint64
	for y := y0; y < y1; y++ {
		a := target.Pix[y*target.Stride : y*target.Stride+width*4]
		b := candidate.Pix[y*candidate.Stride : y*candidate.Stride+width*4]
		for i := 0; i < len(a); i += 4 {
			dr := int(a[i]) - int(b[i])
			dg := int(a[i+1]) - int(b[i+1])
			db := int(a[i+2]) - int(b[i+2])
			sum += uint64(math.Sqrt(float64(dr*dr + dg*dg + db*db)))
		}
	}
	return sum
}
