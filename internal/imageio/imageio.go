package imageio

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	// Registered decoders for target images.
	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"

	"evoimage/internal/genome"
)

const (
	DefaultOutDir = "mutations"
	// SnapshotPattern formats a generation index into a snapshot name.
	SnapshotPattern = "evoimg-%07d.png"
)

var ErrEmptyImage = errors.New("image has no pixels")

// Decode reads any registered image format.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, "", ErrEmptyImage
	}
	return img, format, nil
}

func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Fit resamples src to exactly the canvas size and composites it over
// opaque black, so the result is directly comparable to rendered
// candidates. Images already at canvas size are copied pixel for pixel.
func Fit(src image.Image, canvas genome.Bounds) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(canvas.Width, 1), max(canvas.Height, 1)))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	sb := src.Bounds()
	if sb.Dx() == dst.Rect.Dx() && sb.Dy() == dst.Rect.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Over)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	return dst
}

// LoadTarget reads the target image and fits it to the canvas.
func LoadTarget(path string, canvas genome.Bounds) (*image.RGBA, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Fit(img, canvas), nil
}

func WritePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// DirSink writes snapshots as numbered PNG files in a directory.
type DirSink struct {
	Dir string
}

func NewDirSink(dir string) (*DirSink, error) {
	if dir == "" {
		dir = DefaultOutDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &DirSink{Dir: dir}, nil
}

func (s *DirSink) Path(generation int) string {
	return filepath.Join(s.Dir, fmt.Sprintf(SnapshotPattern, generation))
}

func (s *DirSink) Snapshot(ctx context.Context, generation int, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WritePNG(s.Path(generation), img)
}
