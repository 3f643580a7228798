package raster

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"os"
	"testing"

	"github.com/Fepozopo/filtr/pkg/fxerr"
)

func solid(w, h int, c RGBA) *Buffer {
	b, _ := New(w, h)
	b.Fill(c)
	return b
}

func noise(w, h int, seed int64) *Buffer {
	b, _ := New(w, h)
	rng := rand.New(rand.NewSource(seed))
	rng.Read(b.Pix)
	return b
}

func saveIfRequested(t *testing.T, name string, b *Buffer) {
	if os.Getenv("FILTR_SAVE_TEST_OUTPUT") != "1" {
		return
	}
	f, err := os.Create(name)
	if err != nil {
		t.Logf("could not save %s: %v", name, err)
		return
	}
	defer f.Close()
	png.Encode(f, b.Image())
}

func TestNew(t *testing.T) {
	b, err := New(3, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if len(b.Pix) != 3*2*4 {
		t.Fatalf("len(Pix) = %d, want 24", len(b.Pix))
	}
	for _, v := range b.Pix {
		if v != 0 {
			t.Fatalf("new buffer is not zeroed")
		}
	}
	if _, err := New(-1, 2); !errors.Is(err, fxerr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for negative width, got %v", err)
	}
	if _, err := New(math.MaxInt32, math.MaxInt32); !errors.Is(err, fxerr.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for an oversized buffer, got %v", err)
	}
}

func TestFromImageRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{10, 20, 30, 255})
	img.Set(1, 1, color.NRGBA{200, 100, 50, 128})
	b := FromImage(img)
	if b.Width != 2 || b.Height != 2 {
		t.Fatalf("unexpected size %s", b)
	}
	if got := b.At(1, 1); got != (RGBA{200, 100, 50, 128}) {
		t.Fatalf("At(1,1) = %+v", got)
	}
	out := b.Image()
	if out.NRGBAAt(0, 0) != (color.NRGBA{10, 20, 30, 255}) {
		t.Fatalf("Image() lost pixel data: %+v", out.NRGBAAt(0, 0))
	}

	// non-NRGBA sources go through the generic path
	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.Set(0, 0, color.RGBA{255, 0, 0, 255})
	if got := FromImage(rgba).At(0, 0); got != (RGBA{255, 0, 0, 255}) {
		t.Fatalf("FromImage(RGBA) = %+v", got)
	}
}

func TestAdopt(t *testing.T) {
	a := solid(2, 2, RGBA{1, 2, 3, 4})
	b := solid(3, 1, RGBA{9, 9, 9, 9})
	a.Adopt(b)
	if a.Width != 3 || a.Height != 1 || a.Pix[0] != 9 {
		t.Fatalf("Adopt did not transfer samples: %s %v", a, a.Pix)
	}
	if b.Pix != nil {
		t.Fatalf("source buffer still holds samples after Adopt")
	}
}

func TestApplyClampsAndTruncates(t *testing.T) {
	b := solid(4, 3, RGBA{100, 100, 100, 255})
	_, err := Apply(b, func(c RGBA) RGBA {
		return RGBA{R: c.R + 127.9, G: c.G - 500, B: c.B * 10, A: c.A}
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if got := b.At(x, y); got != (RGBA{227, 0, 255, 255}) {
				t.Fatalf("pixel (%d,%d) = %+v, want {227 0 255 255}", x, y, got)
			}
		}
	}
}

func TestApplyRowMajorOrder(t *testing.T) {
	b, _ := New(3, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			b.Set(x, y, RGBA{float64(x), float64(y), 0, 255})
		}
	}
	Apply(b, func(c RGBA) RGBA { return RGBA{c.R * 10, c.G * 10, c.R + c.G, c.A} })
	if got := b.At(2, 1); got != (RGBA{20, 10, 3, 255}) {
		t.Fatalf("At(2,1) = %+v", got)
	}
}

func TestApplyInvalid(t *testing.T) {
	if _, err := Apply(nil, func(c RGBA) RGBA { return c }); !errors.Is(err, fxerr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for nil buffer, got %v", err)
	}
	if _, err := Apply(solid(1, 1, RGBA{}), nil); !errors.Is(err, fxerr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for nil transform, got %v", err)
	}
}

func TestKernelValidate(t *testing.T) {
	bad := []Kernel{
		nil,
		{{}},
		{{1, 1}},
		{{1}, {1}},
		{{1, 1, 1}, {1, 1}, {1, 1, 1}},
	}
	for i, k := range bad {
		if err := k.Validate(); !errors.Is(err, fxerr.ErrInvalidArgument) {
			t.Fatalf("kernel %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}
	if _, err := NewKernel([][]float64{{0, 1, 0}}); err != nil {
		t.Fatalf("1x3 kernel rejected: %v", err)
	}
}

func TestConvolveIdentity(t *testing.T) {
	src := noise(17, 9, 1)
	out, err := Convolve(src, Kernel{{1}})
	if err != nil {
		t.Fatalf("Convolve failed: %v", err)
	}
	for i := 0; i < len(src.Pix); i += 4 {
		if out.Pix[i] != src.Pix[i] || out.Pix[i+1] != src.Pix[i+1] || out.Pix[i+2] != src.Pix[i+2] {
			t.Fatalf("identity kernel changed RGB at %d", i/4)
		}
		if out.Pix[i+3] != 255 {
			t.Fatalf("alpha not forced to 255 at %d", i/4)
		}
	}
}

func TestConvolveLeavesInputUntouched(t *testing.T) {
	src := noise(8, 8, 2)
	before := src.Clone()
	if _, err := Convolve(src, Kernel{{0, -1, 0}, {-1, 5, -1}, {0, -1, 0}}); err != nil {
		t.Fatalf("Convolve failed: %v", err)
	}
	for i := range src.Pix {
		if src.Pix[i] != before.Pix[i] {
			t.Fatalf("input modified at sample %d", i)
		}
	}
}

func TestConvolveBorderDropsTaps(t *testing.T) {
	src := solid(3, 3, RGBA{90, 90, 90, 10})
	box := Kernel{{1.0 / 9, 1.0 / 9, 1.0 / 9}, {1.0 / 9, 1.0 / 9, 1.0 / 9}, {1.0 / 9, 1.0 / 9, 1.0 / 9}}
	out, err := Convolve(src, box)
	if err != nil {
		t.Fatalf("Convolve failed: %v", err)
	}
	// center sees all 9 taps, edges 6, corners 4
	if got := out.At(1, 1).R; got != 90 {
		t.Fatalf("center = %v, want 90", got)
	}
	if got := out.At(1, 0).R; got != 60 {
		t.Fatalf("edge = %v, want 60", got)
	}
	if got := out.At(0, 0).R; got != 40 {
		t.Fatalf("corner = %v, want 40", got)
	}
}

func TestConvolveWorkersDeterministic(t *testing.T) {
	defer SetWorkers(0)
	src := noise(130, 97, 3)
	k := Kernel{{1, 2, 1}, {2, 4, 2}, {1, 2, 1}}
	for i := range k {
		for j := range k[i] {
			k[i][j] /= 16
		}
	}
	SetWorkers(1)
	serial, _ := Convolve(src, k)
	SetWorkers(7)
	parallel, _ := Convolve(src, k)
	for i := range serial.Pix {
		if serial.Pix[i] != parallel.Pix[i] {
			t.Fatalf("worker count changed output at sample %d", i)
		}
	}
	saveIfRequested(t, "convolve_test_out.png", parallel)
}

func TestApplyWorkersDeterministic(t *testing.T) {
	defer SetWorkers(0)
	fn := func(c RGBA) RGBA { return RGBA{255 - c.R, c.G * 1.3, c.B / 2, c.A} }
	SetWorkers(1)
	a, _ := Apply(noise(100, 100, 4), fn)
	SetWorkers(5)
	b, _ := Apply(noise(100, 100, 4), fn)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("worker count changed output at sample %d", i)
		}
	}
}

func TestConvolveInPlace(t *testing.T) {
	b := solid(4, 4, RGBA{10, 20, 30, 40})
	if err := ConvolveInPlace(b, Kernel{{2}}); err != nil {
		t.Fatalf("ConvolveInPlace failed: %v", err)
	}
	if got := b.At(3, 3); got != (RGBA{20, 40, 60, 255}) {
		t.Fatalf("At(3,3) = %+v", got)
	}
	before := b.Clone()
	if err := ConvolveInPlace(b, Kernel{{1, 1}}); err == nil {
		t.Fatalf("expected an error for an even kernel")
	}
	for i := range b.Pix {
		if b.Pix[i] != before.Pix[i] {
			t.Fatalf("rejected convolution mutated the buffer")
		}
	}
}

func TestApplyRecoversPanic(t *testing.T) {
	defer SetWorkers(0)
	boom := func(c RGBA) RGBA {
		if c.R == 200 {
			panic("bad pixel")
		}
		return c
	}
	for _, tc := range []struct {
		name    string
		workers int
		w, h    int
	}{
		{"serial", 1, 3, 3},
		{"parallel", 4, 200, 200},
	} {
		SetWorkers(tc.workers)
		b := solid(tc.w, tc.h, RGBA{10, 10, 10, 255})
		b.Set(tc.w-1, tc.h-1, RGBA{200, 0, 0, 255})
		if _, err := Apply(b, boom); err == nil {
			t.Fatalf("%s: expected an error from a panicking transform", tc.name)
		}
	}
	SetWorkers(4)
	if _, err := Apply(solid(200, 200, RGBA{1, 2, 3, 4}), func(c RGBA) RGBA { return c }); err != nil {
		t.Fatalf("Apply after a recovered panic failed: %v", err)
	}
}
