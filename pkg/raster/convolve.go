package raster

import (
	"fmt"
	"math"
	"time"

	"github.com/Fepozopo/filtr/pkg/fxerr"
	"github.com/Fepozopo/filtr/pkg/mathutil"
)

// Kernel is a rectangular weight matrix with odd dimensions. Treat it as
// immutable once built.
type Kernel [][]float64

// NewKernel copies rows into a validated Kernel.
func NewKernel(rows [][]float64) (Kernel, error) {
	k := make(Kernel, len(rows))
	for i, r := range rows {
		k[i] = append([]float64(nil), r...)
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// MustKernel is NewKernel for constant kernels; it panics on a malformed one.
func MustKernel(rows [][]float64) Kernel {
	k, err := NewKernel(rows)
	if err != nil {
		panic(err)
	}
	return k
}

// Validate checks that k is non-empty, rectangular and odd in both
// dimensions.
func (k Kernel) Validate() error {
	if len(k) == 0 {
		return fmt.Errorf("%w: empty kernel", fxerr.ErrInvalidArgument)
	}
	cols := len(k[0])
	if cols == 0 {
		return fmt.Errorf("%w: empty kernel row", fxerr.ErrInvalidArgument)
	}
	if len(k)%2 == 0 || cols%2 == 0 {
		return fmt.Errorf("%w: kernel %dx%d has no center", fxerr.ErrInvalidArgument, len(k), cols)
	}
	for i, r := range k {
		if len(r) != cols {
			return fmt.Errorf("%w: kernel row %d has %d weights, want %d", fxerr.ErrInvalidArgument, i, len(r), cols)
		}
		for _, v := range r {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: kernel row %d has a non-finite weight", fxerr.ErrInvalidArgument, i)
			}
		}
	}
	return nil
}

// Size returns rows and columns.
func (k Kernel) Size() (rows, cols int) {
	if len(k) == 0 {
		return 0, 0
	}
	return len(k), len(k[0])
}

// storeRounded writes a convolved or blended channel: clamped, then rounded
// half to even.
func storeRounded(v float64) uint8 {
	return uint8(math.RoundToEven(mathutil.ClampByte(v)))
}

// Convolve applies k to every pixel of buf and returns a new buffer. The
// input is only read. Taps that fall outside the buffer are dropped from the
// sum with no renormalization, so border pixels see a smaller footprint.
// Output alpha is always 255.
func Convolve(buf *Buffer, k Kernel) (*Buffer, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", fxerr.ErrInvalidArgument)
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	out := newLike(buf)
	w, h := buf.Width, buf.Height
	kh, kw := len(k)/2, len(k[0])/2
	in := buf.Pix
	err := forEachBand(w, h, func(y0, y1 int) {
		for i := y0; i < y1; i++ {
			for j := 0; j < w; j++ {
				var r, g, b float64
				for n := -kh; n <= kh; n++ {
					y := i + n
					if y < 0 || y >= h {
						continue
					}
					row := k[n+kh]
					for m := -kw; m <= kw; m++ {
						x := j + m
						if x < 0 || x >= w {
							continue
						}
						f := row[m+kw]
						if f == 0 {
							continue
						}
						idx := (y*w + x) * 4
						r += float64(in[idx+0]) * f
						g += float64(in[idx+1]) * f
						b += float64(in[idx+2]) * f
					}
				}
				o := (i*w + j) * 4
				out.Pix[o+0] = storeRounded(r)
				out.Pix[o+1] = storeRounded(g)
				out.Pix[o+2] = storeRounded(b)
				out.Pix[o+3] = 255
			}
		}
	})
	if err != nil {
		return nil, err
	}
	rows, cols := k.Size()
	Logger().Debug("convolve", "size", buf.String(), "kernel", fmt.Sprintf("%dx%d", rows, cols), "workers", Workers(), "elapsed", time.Since(start))
	return out, nil
}

// ConvolveInPlace convolves buf and adopts the result. buf is untouched if
// the kernel is rejected.
func ConvolveInPlace(buf *Buffer, k Kernel) error {
	out, err := Convolve(buf, k)
	if err != nil {
		return err
	}
	buf.Adopt(out)
	return nil
}

// StoreRounded exposes the rounding write-back used by Convolve for callers
// that combine convolution results themselves.
func StoreRounded(v float64) uint8 {
	return storeRounded(v)
}
