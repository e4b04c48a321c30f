package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"evoimage/internal/evo"
	"evoimage/internal/genome"
	"evoimage/internal/imageio"
	"evoimage/internal/metrics"
	"evoimage/internal/storage"
	"evoimage/pkg/evoimage"
)

const minVertices = 3

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	defaults := options{
		RenderEvery: evo.DefaultRenderImageEvery,
		Generations: evo.DefaultGenerationLimit,
		Children:    evo.DefaultChildren,
		PolygonsMax: genome.DefaultPolygonsMax,
		VerticesMax: genome.DefaultPointsPerPolygonMax,
		OutDir:      imageio.DefaultOutDir,
		FinalWidth:  genome.DefaultCanvasSize,
		FinalHeight: genome.DefaultCanvasSize,
		ReportEvery: evo.DefaultReportEvery,
		Jitter:      "tiered",
		StoreKind:   storage.DefaultStoreKind(),
		DBPath:      "evoimage.db",
	}

	fs := flag.NewFlagSet("evoimage", flag.ContinueOnError)
	fs.SetOutput(stdout)
	configPath := fs.String("config", "", "optional JSON config path; explicitly set flags override it")
	renderEvery := fs.Int("r", defaults.RenderEvery, "write a snapshot at most once every n generations")
	generations := fs.Int("g", defaults.Generations, "generation limit")
	children := fs.Int("c", defaults.Children, fmt.Sprintf("children per generation (1-%d)", evo.MaxChildren))
	seed := fs.Int64("s", 0, "random seed (default: time based)")
	polygons := fs.Int("p", defaults.PolygonsMax, "maximum number of polygons")
	vertices := fs.Int("v", defaults.VerticesMax, "maximum vertices per polygon (at least 3)")
	documentPath := fs.String("j", "", "write the final genome document to this path")
	outDir := fs.String("out-dir", defaults.OutDir, "snapshot directory")
	finalWidth := fs.Int("final-width", defaults.FinalWidth, "final render width")
	finalHeight := fs.Int("final-height", defaults.FinalHeight, "final render height")
	workers := fs.Int("workers", 0, "parallel evaluation workers (default: number of CPUs)")
	reportEvery := fs.Int("report-every", defaults.ReportEvery, "progress line every n generations (0 disables)")
	jitter := fs.String("jitter", defaults.Jitter, "vertex jitter policy: tiered|uniform")
	resume := fs.String("resume", "", "start from a saved genome document")
	storeKind := fs.String("store", defaults.StoreKind, "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaults.DBPath, "sqlite database path")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	plotPath := fs.String("plot", "", "write a fitness plot (png, svg or pdf)")
	svgPath := fs.String("svg", "", "write the final champion as SVG")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address while running")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return usageError(err.Error())
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	var opts options
	if *configPath == "" {
		opts = options{
			RenderEvery:  *renderEvery,
			Generations:  *generations,
			Children:     *children,
			Seed:         *seed,
			SeedSet:      setFlags["s"],
			PolygonsMax:  *polygons,
			VerticesMax:  *vertices,
			DocumentPath: *documentPath,
			OutDir:       *outDir,
			FinalWidth:   *finalWidth,
			FinalHeight:  *finalHeight,
			Workers:      *workers,
			ReportEvery:  *reportEvery,
			Jitter:       *jitter,
			ResumePath:   *resume,
			StoreKind:    *storeKind,
			DBPath:       *dbPath,
			RunID:        *runID,
			PlotPath:     *plotPath,
			SVGPath:      *svgPath,
			MetricsAddr:  *metricsAddr,
		}
	} else {
		loaded, err := loadOptionsFromConfig(*configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		opts = loaded
		applyDefaults(&opts, defaults)
		err = overrideFromFlags(&opts, setFlags, map[string]any{
			"r":            *renderEvery,
			"g":            *generations,
			"c":            *children,
			"s":            *seed,
			"p":            *polygons,
			"v":            *vertices,
			"j":            *documentPath,
			"out-dir":      *outDir,
			"final-width":  *finalWidth,
			"final-height": *finalHeight,
			"workers":      *workers,
			"report-every": *reportEvery,
			"jitter":       *jitter,
			"resume":       *resume,
			"store":        *storeKind,
			"db-path":      *dbPath,
			"run-id":       *runID,
			"plot":         *plotPath,
			"svg":          *svgPath,
			"metrics-addr": *metricsAddr,
		})
		if err != nil {
			return err
		}
	}
	if fs.NArg() > 1 {
		return usageError("expected a single target image")
	}
	if fs.NArg() == 1 {
		opts.Target = fs.Arg(0)
	}

	if err := validateOptions(&opts, stdout); err != nil {
		return err
	}
	if !opts.SeedSet {
		opts.Seed = time.Now().UnixNano()
	}
	fmt.Fprintf(stdout, "seed = %d\n", opts.Seed)

	settings := genome.DefaultSettings()
	settings.PolygonsMax = opts.PolygonsMax
	settings.PointsPerPolygonMax = opts.VerticesMax
	if err := settings.Validate(); err != nil {
		return usageError(err.Error())
	}

	var collector *metrics.Collector
	if opts.MetricsAddr != "" {
		collector = metrics.New()
		shutdown, err := serveMetrics(opts.MetricsAddr, collector)
		if err != nil {
			return err
		}
		defer shutdown()
		fmt.Fprintf(stdout, "serving metrics on %s/metrics\n", opts.MetricsAddr)
	}

	client, err := evoimage.New(evoimage.Options{StoreKind: opts.StoreKind, DBPath: opts.DBPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Evolve(ctx, evoimage.EvolveRequest{
		RunID:            opts.RunID,
		Target:           opts.Target,
		Settings:         &settings,
		Jitter:           opts.Jitter,
		Children:         opts.Children,
		GenerationLimit:  opts.Generations,
		RenderImageEvery: opts.RenderEvery,
		ReportEvery:      opts.ReportEvery,
		Workers:          opts.Workers,
		Seed:             opts.Seed,
		FinalWidth:       opts.FinalWidth,
		FinalHeight:      opts.FinalHeight,
		OutDir:           opts.OutDir,
		ResumePath:       opts.ResumePath,
		DocumentPath:     opts.DocumentPath,
		PlotPath:         opts.PlotPath,
		SVGPath:          opts.SVGPath,
		Reporter:         evo.NewWriterReporter(stdout),
		Metrics:          collector,
	})
	if summary.RunID != "" {
		fmt.Fprintf(stdout, "run_id=%s generations=%d accepted=%d score=%s polygons=%d points=%d\n",
			summary.RunID, summary.Generations, summary.Accepted, humanize.Comma(int64(summary.Score)), summary.Polygons, summary.Points)
	}
	if err != nil {
		return err
	}
	for _, path := range []string{opts.DocumentPath, opts.PlotPath, opts.SVGPath} {
		if path != "" {
			fmt.Fprintf(stdout, "wrote %s\n", path)
		}
	}
	return nil
}

func validateOptions(opts *options, stdout io.Writer) error {
	if opts.Target == "" {
		return usageError("missing target image")
	}
	if opts.RenderEvery < 1 {
		return usageError(fmt.Sprintf("-r must be >= 1, got %d", opts.RenderEvery))
	}
	if opts.Generations < 1 {
		return usageError(fmt.Sprintf("-g must be >= 1, got %d", opts.Generations))
	}
	if opts.Children < 1 || opts.Children > evo.MaxChildren {
		return usageError(fmt.Sprintf("-c must be in [1, %d], got %d", evo.MaxChildren, opts.Children))
	}
	if opts.PolygonsMax < 1 {
		return usageError(fmt.Sprintf("-p must be >= 1, got %d", opts.PolygonsMax))
	}
	if opts.VerticesMax < minVertices {
		fmt.Fprintf(stdout, "warning: -v %d is below %d, using %d\n", opts.VerticesMax, minVertices, minVertices)
		opts.VerticesMax = minVertices
	}
	if opts.FinalWidth < 1 || opts.FinalHeight < 1 {
		return usageError(fmt.Sprintf("final size must be positive, got %dx%d", opts.FinalWidth, opts.FinalHeight))
	}
	if opts.ReportEvery < 0 {
		return usageError(fmt.Sprintf("-report-every must be >= 0, got %d", opts.ReportEvery))
	}
	return nil
}

// serveMetrics binds addr before returning so that address errors surface
// immediately.
func serveMetrics(addr string, collector *metrics.Collector) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = srv.Serve(ln)
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: evoimage [-r n] [-g n] [-c n] [-s seed] [-p n] [-v n] [-j file] [flags] target.png", msg)
}
