package evoimage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"evoimage/internal/document"
	"evoimage/internal/evo"
	"evoimage/internal/export"
	"evoimage/internal/fitness"
	"evoimage/internal/genome"
	"evoimage/internal/imageio"
	"evoimage/internal/metrics"
	"evoimage/internal/model"
	"evoimage/internal/raster"
	"evoimage/internal/stats"
	"evoimage/internal/storage"
)

const (
	defaultDBPath = "evoimage.db"
	// MinRenderSize is the smallest width or height the renderer accepts.
	MinRenderSize = 10
)

type Options struct {
	StoreKind string
	DBPath    string
}

type Client struct {
	store storage.Store

	mu          sync.Mutex
	initialized bool
}

type EvolveRequest struct {
	RunID string

	// Target is the path of the image to approximate. TargetImage, when set,
	// is used instead and Target only labels the run.
	Target      string
	TargetImage image.Image

	// Settings defaults to genome.DefaultSettings when nil.
	Settings     *genome.Settings
	Jitter       string
	JitterRadius int

	Children         int
	GenerationLimit  int
	RenderImageEvery int
	ReportEvery      int
	Workers          int
	Seed             int64
	FinalWidth       int
	FinalHeight      int

	// OutDir receives numbered PNG snapshots; empty disables them.
	OutDir string
	// ResumePath seeds the run with a saved genome document.
	ResumePath   string
	DocumentPath string
	PlotPath     string
	SVGPath      string

	Reporter evo.Reporter
	Metrics  *metrics.Collector
}

type EvolveSummary struct {
	RunID        string
	Score        uint64
	InitialScore uint64
	Generations  int
	Accepted     int
	Polygons     int
	Points       int
	Elapsed      time.Duration
	History      []model.FitnessPoint
	Document     document.Document
}

type RenderRequest struct {
	Input   string
	Output  string
	Width   int
	Height  int
	SVGPath string
}

type RunsRequest struct {
	Limit int
}

type HistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type ChampionRequest struct {
	RunID  string
	Latest bool
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	c.initialized = true
	return nil
}

// Evolve runs one evolution session and persists the run, each snapshotted
// champion and the fitness history. When ctx is cancelled mid-run the
// champion reached so far is still persisted and written, and the summary
// is returned together with the cancellation error.
func (c *Client) Evolve(ctx context.Context, req EvolveRequest) (EvolveSummary, error) {
	settings := genome.DefaultSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}
	if err := settings.Validate(); err != nil {
		return EvolveSummary{}, err
	}
	jitter, ok := genome.JitterByName(req.Jitter, req.JitterRadius)
	if !ok {
		return EvolveSummary{}, fmt.Errorf("unsupported jitter policy: %s", req.Jitter)
	}
	if req.Children == 0 {
		req.Children = evo.DefaultChildren
	}
	if req.GenerationLimit == 0 {
		req.GenerationLimit = evo.DefaultGenerationLimit
	}
	if req.RenderImageEvery == 0 {
		req.RenderImageEvery = evo.DefaultRenderImageEvery
	}

	if err := c.Init(ctx); err != nil {
		return EvolveSummary{}, err
	}

	target, err := loadTarget(req, settings.Canvas)
	if err != nil {
		return EvolveSummary{}, err
	}

	var initial *genome.Drawing
	if req.ResumePath != "" {
		doc, err := document.ReadFile(req.ResumePath)
		if err != nil {
			return EvolveSummary{}, err
		}
		initial = doc.ToDrawing(settings.Canvas)
	}

	var snapshots evo.SnapshotSink
	if req.OutDir != "" {
		sink, err := imageio.NewDirSink(req.OutDir)
		if err != nil {
			return EvolveSummary{}, err
		}
		snapshots = sink
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	journal := &storeJournal{store: c.store, runID: runID, canvas: settings.Canvas}
	ctrl, err := evo.NewController(evo.Config{
		Target:           target,
		Settings:         settings,
		Jitter:           jitter,
		Renderer:         raster.NewRenderer(settings.Canvas),
		Evaluator:        fitness.New(req.Workers),
		Children:         req.Children,
		GenerationLimit:  req.GenerationLimit,
		RenderImageEvery: req.RenderImageEvery,
		ReportEvery:      req.ReportEvery,
		Workers:          req.Workers,
		Seed:             req.Seed,
		FinalWidth:       req.FinalWidth,
		FinalHeight:      req.FinalHeight,
		Initial:          initial,
		Snapshots:        snapshots,
		Journal:          journal,
		Reporter:         req.Reporter,
		Metrics:          req.Metrics,
	})
	if err != nil {
		return EvolveSummary{}, err
	}

	run := model.Run{
		VersionedRecord:  storage.Versioned(),
		ID:               runID,
		Target:           req.Target,
		Seed:             req.Seed,
		CanvasWidth:      settings.Canvas.Width,
		CanvasHeight:     settings.Canvas.Height,
		Children:         req.Children,
		GenerationLimit:  req.GenerationLimit,
		RenderImageEvery: req.RenderImageEvery,
		PolygonsMax:      settings.PolygonsMax,
		PointsPerPolygon: settings.PointsPerPolygonMax,
		Jitter:           jitter.Name(),
		StartedAt:        time.Now().UTC(),
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return EvolveSummary{}, fmt.Errorf("save run: %w", err)
	}

	result, runErr := ctrl.Run(ctx)
	if result.Champion == nil {
		return EvolveSummary{}, runErr
	}

	// Persisting the outcome must survive a cancelled run context.
	persistCtx := context.WithoutCancel(ctx)
	if runErr != nil {
		if err := journal.RecordChampion(persistCtx, result.Generations, result.Score, result.Champion); err != nil {
			return EvolveSummary{}, errors.Join(runErr, err)
		}
	}
	run.FinishedAt = time.Now().UTC()
	run.InitialScore = result.InitialScore
	run.FinalScore = result.Score
	run.Accepted = result.Accepted
	if err := c.store.SaveRun(persistCtx, run); err != nil {
		return EvolveSummary{}, errors.Join(runErr, fmt.Errorf("save run: %w", err))
	}
	if err := c.store.SaveFitnessHistory(persistCtx, runID, result.History); err != nil {
		return EvolveSummary{}, errors.Join(runErr, fmt.Errorf("save fitness history: %w", err))
	}

	doc := document.FromDrawing(result.Champion, settings.Canvas)
	summary := EvolveSummary{
		RunID:        runID,
		Score:        result.Score,
		InitialScore: result.InitialScore,
		Generations:  result.Generations,
		Accepted:     result.Accepted,
		Polygons:     len(result.Champion.Polygons),
		Points:       result.Champion.PointCount(),
		Elapsed:      result.Elapsed,
		History:      result.History,
		Document:     doc,
	}
	if err := writeArtifacts(req, summary, settings.Canvas); err != nil {
		return summary, errors.Join(runErr, err)
	}
	return summary, runErr
}

// Render draws a saved genome document at the requested resolution.
func (c *Client) Render(_ context.Context, req RenderRequest) error {
	if req.Input == "" || req.Output == "" {
		return errors.New("render requires input and output paths")
	}
	if req.Width < MinRenderSize || req.Height < MinRenderSize {
		return fmt.Errorf("render size must be at least %dx%d, got %dx%d", MinRenderSize, MinRenderSize, req.Width, req.Height)
	}

	doc, err := document.ReadFile(req.Input)
	if err != nil {
		return err
	}
	if err := imageio.WritePNG(req.Output, raster.RenderDocument(doc, req.Width, req.Height)); err != nil {
		return fmt.Errorf("write %s: %w", req.Output, err)
	}
	if req.SVGPath != "" {
		if err := export.WriteSVGFile(req.SVGPath, doc, req.Width, req.Height); err != nil {
			return fmt.Errorf("write %s: %w", req.SVGPath, err)
		}
	}
	return nil
}

// Runs lists persisted runs, newest first.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]model.Run, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Run, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		out = append(out, runs[i])
		if req.Limit > 0 && len(out) == req.Limit {
			break
		}
	}
	return out, nil
}

func (c *Client) FitnessHistory(ctx context.Context, req HistoryRequest) ([]model.FitnessPoint, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}

	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("fitness history not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return history, nil
}

// Champion returns the most recently snapshotted champion of a run.
func (c *Client) Champion(ctx context.Context, req ChampionRequest) (model.ChampionRecord, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return model.ChampionRecord{}, err
	}

	record, ok, err := c.store.GetLatestChampion(ctx, runID)
	if err != nil {
		return model.ChampionRecord{}, err
	}
	if !ok {
		return model.ChampionRecord{}, fmt.Errorf("champion not found for run id: %s", runID)
	}
	return record, nil
}

// Champions lists every stored champion of a run in generation order.
func (c *Client) Champions(ctx context.Context, req ChampionRequest) ([]model.ChampionRecord, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	return c.store.ListChampions(ctx, runID)
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if err := c.Init(ctx); err != nil {
		return "", err
	}
	if !latest {
		if runID == "" {
			return "", errors.New("run id or latest is required")
		}
		return runID, nil
	}

	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", errors.New("no runs available")
	}
	return runs[len(runs)-1].ID, nil
}

func loadTarget(req EvolveRequest, canvas genome.Bounds) (*image.RGBA, error) {
	if req.TargetImage != nil {
		return imageio.Fit(req.TargetImage, canvas), nil
	}
	if req.Target == "" {
		return nil, errors.New("target image is required")
	}
	return imageio.LoadTarget(req.Target, canvas)
}

func writeArtifacts(req EvolveRequest, summary EvolveSummary, canvas genome.Bounds) error {
	if req.DocumentPath != "" {
		if err := document.WriteFile(req.DocumentPath, summary.Document); err != nil {
			return err
		}
	}
	if req.PlotPath != "" {
		title := fmt.Sprintf("run %s", summary.RunID)
		if err := stats.PlotHistory(summary.History, summary.Generations, title, req.PlotPath); err != nil {
			return err
		}
	}
	if req.SVGPath != "" {
		width, height := req.FinalWidth, req.FinalHeight
		if width <= 0 {
			width = canvas.Width
		}
		if height <= 0 {
			height = canvas.Height
		}
		if err := export.WriteSVGFile(req.SVGPath, summary.Document, width, height); err != nil {
			return fmt.Errorf("write %s: %w", req.SVGPath, err)
		}
	}
	return nil
}

// storeJournal persists every snapshotted champion as a normalized
// document.
type storeJournal struct {
	store  storage.Store
	runID  string
	canvas genome.Bounds
}

func (j *storeJournal) RecordChampion(ctx context.Context, generation int, score uint64, d *genome.Drawing) error {
	payload, err := document.Encode(document.FromDrawing(d, j.canvas))
	if err != nil {
		return err
	}
	return j.store.SaveChampion(ctx, model.ChampionRecord{
		VersionedRecord: storage.Versioned(),
		RunID:           j.runID,
		Generation:      generation,
		Score:           score,
		Polygons:        len(d.Polygons),
		Points:          d.PointCount(),
		Document:        json.RawMessage(payload),
	})
}
