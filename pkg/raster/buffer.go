// Package raster owns the RGBA pixel buffer and the two engines that every
// effect is built on: the per-pixel transform engine (Apply) and the
// convolution engine (Convolve).
package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/Fepozopo/filtr/pkg/fxerr"
	"github.com/Fepozopo/filtr/pkg/mathutil"
)

// Buffer is an 8-bit RGBA raster, row-major with no row padding.
// len(Pix) == Width*Height*4 always holds.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// RGBA is the transient value a per-pixel transform reads and returns.
type RGBA struct {
	R, G, B, A float64
}

// New allocates a zeroed buffer.
func New(width, height int) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative buffer size %dx%d", fxerr.ErrInvalidArgument, width, height)
	}
	if width > 0 && height > math.MaxInt/4/width {
		return nil, fmt.Errorf("%w: buffer %dx%d is too large", fxerr.ErrUnsupported, width, height)
	}
	return &Buffer{Width: width, Height: height, Pix: make([]uint8, width*height*4)}, nil
}

// newLike allocates a buffer with the dimensions of b. b is already valid, so
// allocation cannot fail on size.
func newLike(b *Buffer) *Buffer {
	return &Buffer{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
}

// FromImage copies any image into a new buffer (non-premultiplied).
func FromImage(img image.Image) *Buffer {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	out := &Buffer{Width: b.Dx(), Height: b.Dy(), Pix: make([]uint8, b.Dx()*b.Dy()*4)}
	if n, ok := img.(*image.NRGBA); ok {
		for y := 0; y < out.Height; y++ {
			src := n.Pix[n.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(out.Pix[y*out.Width*4:(y+1)*out.Width*4], src[:out.Width*4])
		}
		return out
	}
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, b_, a := img.At(x, y).RGBA()
			// premultiplied 16-bit; undo the premultiplication before narrowing
			if a != 0 && a != 0xffff {
				r = r * 0xffff / a
				g = g * 0xffff / a
				b_ = b_ * 0xffff / a
			}
			out.Pix[idx+0] = uint8(r >> 8)
			out.Pix[idx+1] = uint8(g >> 8)
			out.Pix[idx+2] = uint8(b_ >> 8)
			out.Pix[idx+3] = uint8(a >> 8)
			idx += 4
		}
	}
	return out
}

// Image returns a copy of the buffer as an *image.NRGBA anchored at (0,0).
func (b *Buffer) Image() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(out.Pix, b.Pix)
	return out
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := newLike(b)
	copy(out.Pix, b.Pix)
	return out
}

// Offset returns the index of the R sample of pixel (x,y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// In reports whether (x,y) lies inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// At returns the pixel at (x,y).
func (b *Buffer) At(x, y int) RGBA {
	i := b.Offset(x, y)
	return RGBA{
		R: float64(b.Pix[i+0]),
		G: float64(b.Pix[i+1]),
		B: float64(b.Pix[i+2]),
		A: float64(b.Pix[i+3]),
	}
}

// Set writes c at (x,y), clamped and truncated.
func (b *Buffer) Set(x, y int, c RGBA) {
	b.store(b.Offset(x, y), c)
}

func (b *Buffer) store(i int, c RGBA) {
	b.Pix[i+0] = uint8(mathutil.ClampByte(c.R))
	b.Pix[i+1] = uint8(mathutil.ClampByte(c.G))
	b.Pix[i+2] = uint8(mathutil.ClampByte(c.B))
	b.Pix[i+3] = uint8(mathutil.ClampByte(c.A))
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c RGBA) {
	if len(b.Pix) == 0 {
		return
	}
	b.store(0, c)
	for i := 4; i < len(b.Pix); i *= 2 {
		copy(b.Pix[i:], b.Pix[:i])
	}
}

// SameSize reports whether o has the dimensions of b.
func (b *Buffer) SameSize(o *Buffer) bool {
	return o != nil && b.Width == o.Width && b.Height == o.Height
}

// Adopt takes ownership of o's samples and dimensions. o must not be used
// afterwards.
func (b *Buffer) Adopt(o *Buffer) {
	b.Width, b.Height, b.Pix = o.Width, o.Height, o.Pix
	o.Pix = nil
	o.Width, o.Height = 0, 0
}

func (b *Buffer) String() string {
	return fmt.Sprintf("%dx%d", b.Width, b.Height)
}
