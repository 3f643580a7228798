package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fepozopo/filtr/pkg/fxerr"
	"github.com/Fepozopo/filtr/pkg/raster"
)

func writeImage(t *testing.T, dir, name string, w, h int, c raster.RGBA) string {
	t.Helper()
	b, _ := raster.New(w, h)
	b.Fill(c)
	path := filepath.Join(dir, name)
	if err := SaveImage(path, b, 92); err != nil {
		t.Fatalf("SaveImage(%s) failed: %v", name, err)
	}
	return path
}

// near allows for the 16-bit round trip inside the resampler.
func near(a, b raster.RGBA, tol float64) bool {
	d := func(x, y float64) bool { return x-y <= tol && y-x <= tol }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestSaveLoadFormats(t *testing.T) {
	dir := t.TempDir()
	c := raster.RGBA{R: 10, G: 200, B: 30, A: 255}
	for _, ext := range []string{".png", ".bmp", ".tiff"} {
		path := writeImage(t, dir, "img"+ext, 3, 2, c)
		buf, format, err := LoadImage(path)
		if err != nil {
			t.Fatalf("LoadImage(%s) failed: %v", ext, err)
		}
		if buf.Width != 3 || buf.Height != 2 || buf.At(2, 1) != c {
			t.Fatalf("%s round trip: %s %+v", ext, buf, buf.At(2, 1))
		}
		if format == "" {
			t.Fatalf("%s: empty format", ext)
		}
	}
	jpg := writeImage(t, dir, "img.jpg", 8, 8, c)
	if buf, format, err := LoadImage(jpg); err != nil || format != "jpeg" || buf.Width != 8 {
		t.Fatalf("jpeg round trip: %v %q", err, format)
	}
	b, _ := raster.New(1, 1)
	if err := SaveImage(filepath.Join(dir, "img.xyz"), b, 92); !errors.Is(err, fxerr.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestRunBatchPipelineAndBlend(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, "in.png", 4, 4, raster.RGBA{R: 100, G: 100, B: 100, A: 255})
	layer := writeImage(t, dir, "layer.png", 2, 2, raster.RGBA{R: 128, G: 64, B: 0, A: 255})
	out := filepath.Join(dir, "out.png")

	err := RunBatch(DefaultConfig(), BatchOptions{
		Input:   in,
		Output:  out,
		Effects: "fill 255 255 255 | invert | invert",
		Layer:   layer,
		Mode:    "MULTIPLY",
		Fit:     true,
	})
	if err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}
	buf, _, err := LoadImage(out)
	if err != nil {
		t.Fatalf("LoadImage(out) failed: %v", err)
	}
	if got := buf.At(3, 3); !near(got, raster.RGBA{R: 128, G: 64, B: 0, A: 255}, 1) {
		t.Fatalf("fitted multiply over white = %+v", got)
	}
}

func TestRunBatchOverlapOnlyWithoutFit(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, "in.png", 4, 4, raster.RGBA{R: 255, G: 255, B: 255, A: 255})
	layer := writeImage(t, dir, "layer.png", 2, 2, raster.RGBA{A: 255})
	out := filepath.Join(dir, "out.bmp")
	if err := RunBatch(DefaultConfig(), BatchOptions{Input: in, Output: out, Layer: layer, Mode: "multiply"}); err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}
	buf, _, _ := LoadImage(out)
	if buf.At(1, 1).R != 0 || buf.At(3, 3).R != 255 {
		t.Fatalf("blend outside the overlap: %+v %+v", buf.At(1, 1), buf.At(3, 3))
	}
}

func TestRunBatchRejectsBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, "in.png", 2, 2, raster.RGBA{A: 255})
	out := filepath.Join(dir, "out.png")
	cases := []BatchOptions{
		{Input: in, Output: out, Effects: "brighten 10 | nope"},
		{Input: in, Output: out, Effects: "blur motion"},
		{Input: in, Output: out, Layer: in, Mode: "dissolve"},
		{Input: in},
	}
	for _, c := range cases {
		if err := RunBatch(DefaultConfig(), c); !errors.Is(err, fxerr.ErrInvalidArgument) {
			t.Fatalf("%+v: expected ErrInvalidArgument, got %v", c, err)
		}
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Fatalf("%+v: output written despite the error", c)
		}
	}
}

func TestFitLayer(t *testing.T) {
	b, _ := raster.New(2, 2)
	b.Fill(raster.RGBA{R: 40, G: 80, B: 120, A: 255})
	out, err := FitLayer(b, 5, 3)
	if err != nil {
		t.Fatalf("FitLayer failed: %v", err)
	}
	if out.Width != 5 || out.Height != 3 {
		t.Fatalf("FitLayer size = %s", out)
	}
	if got := out.At(2, 1); !near(got, raster.RGBA{R: 40, G: 80, B: 120, A: 255}, 1) {
		t.Fatalf("flat layer resampled to %+v", got)
	}
}

func TestPrintEffects(t *testing.T) {
	var out bytes.Buffer
	PrintEffects(&out)
	s := out.String()
	for _, want := range []string{"posterize <levels>", "blur [simple|gaussian]", "blend modes: multiply, screen"} {
		if !strings.Contains(s, want) {
			t.Fatalf("catalog lacks %q", want)
		}
	}
}
