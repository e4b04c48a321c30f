package evo

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"

	"evoimage/internal/fitness"
	"evoimage/internal/genome"
	"evoimage/internal/metrics"
	"evoimage/internal/model"
)

const (
	DefaultChildren         = 1
	MaxChildren             = 10
	DefaultGenerationLimit  = 10000
	DefaultRenderImageEvery = 300
	DefaultReportEvery      = 2000
)

// Renderer rasterizes a drawing at the requested size.
type Renderer interface {
	Render(d *genome.Drawing, width, height int) *image.RGBA
}

// SnapshotSink stores intermediate images. Generation 0 is the target and
// generation 1 the initial candidate.
type SnapshotSink interface {
	Snapshot(ctx context.Context, generation int, img image.Image) error
}

// Journal records every champion that is snapshotted.
type Journal interface {
	RecordChampion(ctx context.Context, generation int, score uint64, d *genome.Drawing) error
}

type Config struct {
	Target           *image.RGBA
	Settings         genome.Settings
	Jitter           genome.JitterPolicy
	Renderer         Renderer
	Evaluator        fitness.Evaluator
	Children         int
	GenerationLimit  int
	RenderImageEvery int
	ReportEvery      int
	Workers          int
	Seed             int64
	FinalWidth       int
	FinalHeight      int

	// Initial seeds the run with an existing drawing instead of a fresh one.
	Initial *genome.Drawing

	Snapshots SnapshotSink
	Journal   Journal
	Reporter  Reporter
	Metrics   *metrics.Collector
}

func (cfg *Config) normalize() error {
	if cfg.Target == nil {
		return errors.New("target image is required")
	}
	if cfg.Renderer == nil {
		return errors.New("renderer is required")
	}
	if err := cfg.Settings.Validate(); err != nil {
		return err
	}
	if cfg.Children < 1 || cfg.Children > MaxChildren {
		return fmt.Errorf("children must be in [1, %d], got %d", MaxChildren, cfg.Children)
	}
	if cfg.GenerationLimit < 1 {
		return fmt.Errorf("generation limit must be >= 1, got %d", cfg.GenerationLimit)
	}
	if cfg.RenderImageEvery < 1 {
		return fmt.Errorf("render interval must be >= 1, got %d", cfg.RenderImageEvery)
	}
	if cfg.Initial != nil {
		if err := cfg.Initial.Validate(cfg.Settings); err != nil {
			return fmt.Errorf("initial drawing: %w", err)
		}
	}
	if cfg.Evaluator == nil {
		cfg.Evaluator = fitness.Sequential{}
	}
	if cfg.Jitter == nil {
		cfg.Jitter = genome.TieredJitter{}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.ReportEvery < 0 {
		cfg.ReportEvery = 0
	}
	if cfg.FinalWidth <= 0 {
		cfg.FinalWidth = cfg.Target.Rect.Dx()
	}
	if cfg.FinalHeight <= 0 {
		cfg.FinalHeight = cfg.Target.Rect.Dy()
	}
	return nil
}

// Result summarizes a finished run. The champion is owned by the caller.
type Result struct {
	Champion     *genome.Drawing
	Score        uint64
	InitialScore uint64
	Generations  int
	Accepted     int
	History      []model.FitnessPoint
	Elapsed      time.Duration
}

// Controller drives the (1+λ) hill climb. It owns every piece of state that
// lives across generations: the champion, its score, the generation counter
// and the snapshot threshold.
type Controller struct {
	cfg Config
	rng *rand.Rand

	champion     *genome.Drawing
	score        uint64
	initialScore uint64
	generation   int
	nextSnapshot int
	accepted     int
	history      []model.FitnessPoint
	started      time.Time
}

func NewController(cfg Config) (*Controller, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

func (c *Controller) Champion() *genome.Drawing {
	return c.champion
}

func (c *Controller) Score() uint64 {
	return c.score
}

func (c *Controller) Generation() int {
	return c.generation
}

// Init builds the first champion, scores it and writes the target and the
// initial candidate as snapshots 0 and 1.
func (c *Controller) Init(ctx context.Context) error {
	c.started = time.Now()
	if c.cfg.Initial != nil {
		c.champion = c.cfg.Initial.Clone()
	} else {
		c.champion = genome.NewDrawing(c.mutator())
	}

	img := c.render(c.champion)
	score, err := c.cfg.Evaluator.Score(c.cfg.Target, img)
	if err != nil {
		return fmt.Errorf("score initial drawing: %w", err)
	}
	c.champion.ClearDirty()
	c.score = score
	c.initialScore = score
	c.generation = 0
	c.nextSnapshot = 0
	c.history = append(c.history[:0], model.FitnessPoint{Generation: 0, Score: score})

	if err := c.snapshotImage(ctx, 0, c.cfg.Target); err != nil {
		return err
	}
	if err := c.snapshot(ctx, 1, c.champion, img); err != nil {
		return err
	}
	c.cfg.Metrics.ObserveChampion(c.score, len(c.champion.Polygons), c.champion.PointCount(), false)
	c.report(EventInit)
	return nil
}

// Run executes INIT, every generation up to the limit, and FINAL. A
// cancelled context stops between generations; the champion reached so far
// is still returned alongside the error.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	if c.champion == nil {
		if err := c.Init(ctx); err != nil {
			return Result{}, err
		}
	}

	for gen := c.generation + 1; gen <= c.cfg.GenerationLimit; gen++ {
		if err := ctx.Err(); err != nil {
			return c.result(), err
		}
		if _, err := c.Step(ctx, gen); err != nil {
			return c.result(), fmt.Errorf("generation %d: %w", gen, err)
		}
	}

	if err := c.Final(ctx); err != nil {
		return c.result(), err
	}
	return c.result(), nil
}

// Step runs one generation: λ children are cloned, mutated, rendered and
// scored, then the best of them competes with the champion.
func (c *Controller) Step(ctx context.Context, generation int) (bool, error) {
	if c.champion == nil {
		return false, errors.New("controller is not initialized")
	}
	c.generation = generation
	if c.cfg.ReportEvery > 0 && generation%c.cfg.ReportEvery == 0 {
		c.report(EventProgress)
	}

	n := c.cfg.Children
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = c.rng.Int63()
	}
	children := make([]*genome.Drawing, n)
	images := make([]*image.RGBA, n)
	scores := make([]uint64, n)

	evaluate := func(i int) error {
		child := c.champion.Clone()
		child.Mutate(genome.NewMutator(seeds[i], c.cfg.Settings, c.cfg.Jitter))
		img := c.render(child)
		score, err := c.cfg.Evaluator.Score(c.cfg.Target, img)
		if err != nil {
			return fmt.Errorf("score child %d: %w", i, err)
		}
		children[i], images[i], scores[i] = child, img, score
		return nil
	}

	if n == 1 || c.cfg.Workers == 1 {
		for i := 0; i < n; i++ {
			if err := evaluate(i); err != nil {
				return false, err
			}
		}
	} else {
		p := pool.New().WithErrors().WithMaxGoroutines(min(c.cfg.Workers, n))
		for i := 0; i < n; i++ {
			i := i
			p.Go(func() error {
				return evaluate(i)
			})
		}
		if err := p.Wait(); err != nil {
			return false, err
		}
	}
	c.cfg.Metrics.ObserveGeneration(n)

	return c.accept(ctx, generation, children, images, scores)
}

// accept promotes the best child when it strictly beats the champion. The
// old champion and every losing child are dropped here.
func (c *Controller) accept(ctx context.Context, generation int, children []*genome.Drawing, images []*image.RGBA, scores []uint64) (bool, error) {
	best, bestScore := SelectBest(scores)
	if best < 0 || bestScore >= c.score {
		return false, nil
	}

	c.champion = children[best]
	c.champion.ClearDirty()
	c.score = bestScore
	c.accepted++
	c.history = append(c.history, model.FitnessPoint{Generation: generation, Score: bestScore})
	c.cfg.Metrics.ObserveChampion(c.score, len(c.champion.Polygons), c.champion.PointCount(), true)

	if generation > c.nextSnapshot {
		var img *image.RGBA
		if best < len(images) {
			img = images[best]
		}
		if err := c.snapshot(ctx, generation, c.champion, img); err != nil {
			return true, err
		}
		c.nextSnapshot = NextSnapshot(generation, c.cfg.RenderImageEvery)
	}
	return true, nil
}

// Final renders the champion at the output resolution under the index of
// the generation limit.
func (c *Controller) Final(ctx context.Context) error {
	if c.champion == nil {
		return errors.New("controller is not initialized")
	}
	img := c.cfg.Renderer.Render(c.champion, c.cfg.FinalWidth, c.cfg.FinalHeight)
	if err := c.snapshot(ctx, c.cfg.GenerationLimit, c.champion, img); err != nil {
		return err
	}
	c.report(EventDone)
	return nil
}

func (c *Controller) result() Result {
	return Result{
		Champion:     c.champion,
		Score:        c.score,
		InitialScore: c.initialScore,
		Generations:  c.generation,
		Accepted:     c.accepted,
		History:      append([]model.FitnessPoint(nil), c.history...),
		Elapsed:      time.Since(c.started),
	}
}

func (c *Controller) mutator() *genome.Mutator {
	return genome.NewMutator(c.rng.Int63(), c.cfg.Settings, c.cfg.Jitter)
}

func (c *Controller) render(d *genome.Drawing) *image.RGBA {
	return c.cfg.Renderer.Render(d, c.cfg.Target.Rect.Dx(), c.cfg.Target.Rect.Dy())
}

func (c *Controller) snapshot(ctx context.Context, generation int, d *genome.Drawing, img *image.RGBA) error {
	if c.cfg.Journal != nil {
		if err := c.cfg.Journal.RecordChampion(ctx, generation, c.score, d); err != nil {
			return fmt.Errorf("record champion at generation %d: %w", generation, err)
		}
	}
	if c.cfg.Snapshots == nil {
		return nil
	}
	if img == nil {
		img = c.render(d)
	}
	return c.snapshotImage(ctx, generation, img)
}

func (c *Controller) snapshotImage(ctx context.Context, generation int, img image.Image) error {
	if c.cfg.Snapshots == nil {
		return nil
	}
	if err := c.cfg.Snapshots.Snapshot(ctx, generation, img); err != nil {
		return fmt.Errorf("snapshot generation %d: %w", generation, err)
	}
	c.cfg.Metrics.ObserveSnapshot()
	return nil
}

func (c *Controller) report(event Event) {
	if c.cfg.Reporter == nil {
		return
	}
	c.cfg.Reporter.Report(Progress{
		Event:      event,
		Generation: c.generation,
		Score:      c.score,
		Polygons:   len(c.champion.Polygons),
		Points:     c.champion.PointCount(),
		Accepted:   c.accepted,
		Elapsed:    time.Since(c.started),
	})
}
