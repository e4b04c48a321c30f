package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// options is everything the evolving tool can be configured with, either
// from flags or from a JSON config file.
type options struct {
	Target       string
	RenderEvery  int
	Generations  int
	Children     int
	Seed         int64
	SeedSet      bool
	PolygonsMax  int
	VerticesMax  int
	DocumentPath string
	OutDir       string
	FinalWidth   int
	FinalHeight  int
	Workers      int
	ReportEvery  int
	Jitter       string
	ResumePath   string
	StoreKind    string
	DBPath       string
	RunID        string
	PlotPath     string
	SVGPath      string
	MetricsAddr  string
}

func loadOptionsFromConfig(path string) (options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return options{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return options{}, err
	}

	var opts options
	if v, ok := asString(raw["target"]); ok {
		opts.Target = v
	}
	if v, ok := asInt(raw["render_every"]); ok {
		opts.RenderEvery = v
	}
	if v, ok := asInt(raw["generations"]); ok {
		opts.Generations = v
	}
	if v, ok := asInt(raw["children"]); ok {
		opts.Children = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		opts.Seed = v
		opts.SeedSet = true
	}
	if v, ok := asInt(raw["polygons"]); ok {
		opts.PolygonsMax = v
	}
	if v, ok := asInt(raw["vertices"]); ok {
		opts.VerticesMax = v
	}
	if v, ok := asString(raw["json"]); ok {
		opts.DocumentPath = v
	}
	if v, ok := asString(raw["out_dir"]); ok {
		opts.OutDir = v
	}
	if v, ok := asInt(raw["final_width"]); ok {
		opts.FinalWidth = v
	}
	if v, ok := asInt(raw["final_height"]); ok {
		opts.FinalHeight = v
	}
	if v, ok := asInt(raw["workers"]); ok {
		opts.Workers = v
	}
	if v, ok := asInt(raw["report_every"]); ok {
		opts.ReportEvery = v
	}
	if v, ok := asString(raw["jitter"]); ok {
		opts.Jitter = v
	}
	if v, ok := asString(raw["resume"]); ok {
		opts.ResumePath = v
	}
	if v, ok := asString(raw["store"]); ok {
		opts.StoreKind = v
	}
	if v, ok := asString(raw["db_path"]); ok {
		opts.DBPath = v
	}
	if v, ok := asString(raw["run_id"]); ok {
		opts.RunID = v
	}
	if v, ok := asString(raw["plot"]); ok {
		opts.PlotPath = v
	}
	if v, ok := asString(raw["svg"]); ok {
		opts.SVGPath = v
	}
	if v, ok := asString(raw["metrics_addr"]); ok {
		opts.MetricsAddr = v
	}
	return opts, nil
}

// applyDefaults fills fields a config file left out with the flag defaults.
func applyDefaults(opts *options, defaults options) {
	if opts.RenderEvery == 0 {
		opts.RenderEvery = defaults.RenderEvery
	}
	if opts.Generations == 0 {
		opts.Generations = defaults.Generations
	}
	if opts.Children == 0 {
		opts.Children = defaults.Children
	}
	if opts.PolygonsMax == 0 {
		opts.PolygonsMax = defaults.PolygonsMax
	}
	if opts.VerticesMax == 0 {
		opts.VerticesMax = defaults.VerticesMax
	}
	if opts.OutDir == "" {
		opts.OutDir = defaults.OutDir
	}
	if opts.FinalWidth == 0 {
		opts.FinalWidth = defaults.FinalWidth
	}
	if opts.FinalHeight == 0 {
		opts.FinalHeight = defaults.FinalHeight
	}
	if opts.ReportEvery == 0 {
		opts.ReportEvery = defaults.ReportEvery
	}
	if opts.Jitter == "" {
		opts.Jitter = defaults.Jitter
	}
	if opts.StoreKind == "" {
		opts.StoreKind = defaults.StoreKind
	}
	if opts.DBPath == "" {
		opts.DBPath = defaults.DBPath
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func overrideFromFlags(opts *options, set map[string]bool, flagValue map[string]any) error {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "r":
			opts.RenderEvery = v.(int)
		case "g":
			opts.Generations = v.(int)
		case "c":
			opts.Children = v.(int)
		case "s":
			opts.Seed = v.(int64)
			opts.SeedSet = true
		case "p":
			opts.PolygonsMax = v.(int)
		case "v":
			opts.VerticesMax = v.(int)
		case "j":
			opts.DocumentPath = v.(string)
		case "out-dir":
			opts.OutDir = v.(string)
		case "final-width":
			opts.FinalWidth = v.(int)
		case "final-height":
			opts.FinalHeight = v.(int)
		case "workers":
			opts.Workers = v.(int)
		case "report-every":
			opts.ReportEvery = v.(int)
		case "jitter":
			opts.Jitter = v.(string)
		case "resume":
			opts.ResumePath = v.(string)
		case "store":
			opts.StoreKind = v.(string)
		case "db-path":
			opts.DBPath = v.(string)
		case "run-id":
			opts.RunID = v.(string)
		case "plot":
			opts.PlotPath = v.(string)
		case "svg":
			opts.SVGPath = v.(string)
		case "metrics-addr":
			opts.MetricsAddr = v.(string)
		default:
			return fmt.Errorf("unsupported override flag: %s", name)
		}
	}
	return nil
}
