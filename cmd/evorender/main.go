package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"evoimage/internal/genome"
	"evoimage/pkg/evoimage"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("evorender", flag.ContinueOnError)
	fs.SetOutput(stdout)
	input := fs.String("i", "", "genome document to render")
	output := fs.String("o", "", "output PNG path")
	width := fs.Int("w", genome.DefaultCanvasSize, fmt.Sprintf("output width (>= %d)", evoimage.MinRenderSize))
	height := fs.Int("h", genome.DefaultCanvasSize, fmt.Sprintf("output height (>= %d)", evoimage.MinRenderSize))
	svgPath := fs.String("svg", "", "also write the drawing as SVG")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return usageError(err.Error())
	}
	if fs.NArg() > 0 {
		return usageError(fmt.Sprintf("unexpected argument: %s", fs.Arg(0)))
	}
	if *input == "" {
		return usageError("missing -i input document")
	}
	if *output == "" {
		return usageError("missing -o output image")
	}
	if *width < evoimage.MinRenderSize || *height < evoimage.MinRenderSize {
		return usageError(fmt.Sprintf("-w and -h must be >= %d, got %dx%d", evoimage.MinRenderSize, *width, *height))
	}

	client, err := evoimage.New(evoimage.Options{})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Render(ctx, evoimage.RenderRequest{
		Input:   *input,
		Output:  *output,
		Width:   *width,
		Height:  *height,
		SVGPath: *svgPath,
	}); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "rendered %s at %dx%d to %s\n", *input, *width, *height, *output)
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: evorender -i doc.json -o out.png [-w 200] [-h 200] [-svg out.svg]", msg)
}
