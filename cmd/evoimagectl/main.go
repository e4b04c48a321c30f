package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"evoimage/internal/stats"
	"evoimage/internal/storage"
	"evoimage/pkg/evoimage"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "runs":
		return runRuns(ctx, args[1:], stdout)
	case "history":
		return runHistory(ctx, args[1:], stdout)
	case "champion":
		return runChampion(ctx, args[1:], stdout)
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

type storeFlags struct {
	kind   *string
	dbPath *string
}

func addStoreFlags(fs *flag.FlagSet) storeFlags {
	return storeFlags{
		kind:   fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite"),
		dbPath: fs.String("db-path", "evoimage.db", "sqlite database path"),
	}
}

func (f storeFlags) open(ctx context.Context) (*evoimage.Client, error) {
	client, err := evoimage.New(evoimage.Options{StoreKind: *f.kind, DBPath: *f.dbPath})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func runRuns(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	fs.SetOutput(stdout)
	store := addStoreFlags(fs)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := store.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, evoimage.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(stdout, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "no runs found")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(stdout, "run_id=%s started=%s target=%s seed=%d children=%d generations=%d accepted=%d score=%s\n",
			run.ID, run.StartedAt.Format(time.RFC3339), run.Target, run.Seed, run.Children, run.GenerationLimit,
			run.Accepted, humanize.Comma(int64(run.FinalScore)))
	}
	return nil
}

func runHistory(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stdout)
	store := addStoreFlags(fs)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	limit := fs.Int("limit", 0, "max points to show (0 shows all)")
	csvOut := fs.Bool("csv", false, "emit history as CSV")
	outPath := fs.String("o", "", "write the history to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := store.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, evoimage.HistoryRequest{RunID: *runID, Latest: *latest, Limit: *limit})
	if err != nil {
		return err
	}
	if *outPath != "" {
		if err := stats.WriteHistoryCSVFile(*outPath, history); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %d points to %s\n", len(history), *outPath)
		return nil
	}
	if *csvOut {
		return stats.WriteHistoryCSV(stdout, history)
	}

	for _, point := range history {
		fmt.Fprintf(stdout, "generation=%d score=%d\n", point.Generation, point.Score)
	}
	if summary, err := stats.Summarize(history); err == nil {
		fmt.Fprintf(stdout, "acceptances=%d improvement=%.2f%%\n", summary.Acceptances, 100*summary.Improvement)
	}
	return nil
}

func runChampion(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("champion", flag.ContinueOnError)
	fs.SetOutput(stdout)
	store := addStoreFlags(fs)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	outPath := fs.String("o", "", "write the champion genome document to this file")
	all := fs.Bool("all", false, "list every stored champion of the run")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *all && *outPath != "" {
		return errors.New("-all cannot be combined with -o")
	}

	client, err := store.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if *all {
		records, err := client.Champions(ctx, evoimage.ChampionRequest{RunID: *runID, Latest: *latest})
		if err != nil {
			return err
		}
		for _, record := range records {
			fmt.Fprintf(stdout, "generation=%d score=%d polygons=%d points=%d\n",
				record.Generation, record.Score, record.Polygons, record.Points)
		}
		return nil
	}

	record, err := client.Champion(ctx, evoimage.ChampionRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "run_id=%s generation=%d score=%d polygons=%d points=%d\n",
		record.RunID, record.Generation, record.Score, record.Polygons, record.Points)
	if *outPath == "" {
		return nil
	}
	if err := os.WriteFile(*outPath, append([]byte(record.Document), '\n'), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", *outPath)
	return nil
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: evoimagectl <runs|history|champion> [flags]", msg)
}
