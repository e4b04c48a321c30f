package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"evoimage/internal/document"
	"evoimage/internal/imageio"
)

func writeTarget(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(8 * x), G: uint8(8 * y), B: 90, A: 255})
		}
	}
	path := filepath.Join(dir, "target.png")
	if err := imageio.WritePNG(path, img); err != nil {
		t.Fatalf("write target: %v", err)
	}
	return path
}

func TestRunEvolvesAndWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	target := writeTarget(t, dir)
	outDir := filepath.Join(dir, "mutations")
	docPath := filepath.Join(dir, "best.json")
	svgPath := filepath.Join(dir, "best.svg")
	plotPath := filepath.Join(dir, "fitness.png")

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"-r", "10",
		"-g", "30",
		"-c", "2",
		"-s", "5",
		"-p", "5",
		"-v", "5",
		"-j", docPath,
		"-out-dir", outDir,
		"-final-width", "64",
		"-final-height", "48",
		"-report-every", "10",
		"-svg", svgPath,
		"-plot", plotPath,
		target,
	}, &out)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out.String())
	}

	text := out.String()
	for _, want := range []string{"seed = 5", "event=init", "event=progress generation=30", "event=done", "run_id=", "wrote " + docPath} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}

	for _, name := range []string{"evoimg-0000000.png", "evoimg-0000001.png", "evoimg-0000030.png"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("expected snapshot %s: %v", name, err)
		}
	}
	final, err := imageio.Load(filepath.Join(outDir, "evoimg-0000030.png"))
	if err != nil {
		t.Fatalf("load final snapshot: %v", err)
	}
	if final.Bounds().Dx() != 64 || final.Bounds().Dy() != 48 {
		t.Fatalf("unexpected final size: %v", final.Bounds())
	}

	doc, err := document.ReadFile(docPath)
	if err != nil {
		t.Fatalf("read genome document: %v", err)
	}
	if len(doc.Polygons) == 0 || len(doc.Polygons) > 5 {
		t.Fatalf("unexpected polygon count: %d", len(doc.Polygons))
	}
	for _, path := range []string{svgPath, plotPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s: %v", path, err)
		}
	}
}

func TestRunRejectsBadUsage(t *testing.T) {
	dir := t.TempDir()
	target := writeTarget(t, dir)

	cases := map[string][]string{
		"missing target": {"-g", "1"},
		"zero children":  {"-c", "0", target},
		"many children":  {"-c", "11", target},
		"zero interval":  {"-r", "0", target},
		"zero limit":     {"-g", "0", target},
		"no polygons":    {"-p", "0", target},
		"two targets":    {target, target},
		"unknown flag":   {"-zzz", target},
	}
	for name, args := range cases {
		var out bytes.Buffer
		err := run(context.Background(), args, &out)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !strings.Contains(err.Error(), "usage: evoimage") {
			t.Fatalf("%s: expected usage in error, got %v", name, err)
		}
	}
}

func TestRunClampsVerticesWithWarning(t *testing.T) {
	dir := t.TempDir()
	target := writeTarget(t, dir)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-g", "2", "-s", "1", "-v", "2", "-out-dir", filepath.Join(dir, "m"), target}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "warning: -v 2 is below 3, using 3") {
		t.Fatalf("expected clamp warning, got:\n%s", out.String())
	}
}

func TestRunReportsMissingTargetFile(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	err := run(context.Background(), []string{"-g", "1", "-out-dir", filepath.Join(dir, "m"), filepath.Join(dir, "missing.png")}, &out)
	if err == nil {
		t.Fatal("expected error for missing target")
	}
	if strings.Contains(err.Error(), "usage:") {
		t.Fatalf("resource errors should not print usage: %v", err)
	}
}

func TestRunUsesConfigWithFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	target := writeTarget(t, dir)
	docPath := filepath.Join(dir, "best.json")
	configPath := filepath.Join(dir, "config.json")
	data, err := json.Marshal(map[string]any{
		"target":       target,
		"generations":  500,
		"children":     3,
		"seed":         9,
		"polygons":     4,
		"json":         docPath,
		"out_dir":      filepath.Join(dir, "snapshots"),
		"report_every": 0,
	})
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), []string{"-config", configPath, "-g", "4"}, &out); err != nil {
		t.Fatalf("run: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "seed = 9") || !strings.Contains(out.String(), "generations=4 ") {
		t.Fatalf("expected config seed and flag generation override:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "snapshots", "evoimg-0000004.png")); err != nil {
		t.Fatalf("expected final snapshot in configured directory: %v", err)
	}
	if _, err := os.Stat(docPath); err != nil {
		t.Fatalf("expected genome document: %v", err)
	}
}
