// Package layers merges a top buffer into a bottom buffer with a named
// blend formula. The bottom buffer is mutated in place and keeps its alpha.
package layers

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Fepozopo/filtr/pkg/fxerr"
	"github.com/Fepozopo/filtr/pkg/raster"
)

// Mode names a blend formula.
type Mode string

// Supported blend modes. Names are matched case-insensitively.
const (
	Multiply   Mode = "multiply"
	Screen     Mode = "screen"
	Overlay    Mode = "overlay"
	Addition   Mode = "addition"
	Difference Mode = "difference"
	Exclusion  Mode = "exclusion"
	SoftLight  Mode = "softLight"
)

// Modes lists every supported mode.
var Modes = []Mode{Multiply, Screen, Overlay, Addition, Difference, Exclusion, SoftLight}

type formula func(b, t float64) float64

var formulas = map[Mode]formula{
	Multiply: func(b, t float64) float64 { return t * b / 255 },
	Screen:   func(b, t float64) float64 { return 255 - (255-t)*(255-b)/255 },
	Overlay: func(b, t float64) float64 {
		if b > 128 {
			return 255 - 2*(255-t)*(255-b)/255
		}
		return 2 * b * t / 255
	},
	Addition:   func(b, t float64) float64 { return b + t },
	Difference: func(b, t float64) float64 { return math.Abs(t - b) },
	Exclusion:  func(b, t float64) float64 { return 128 - 2*(b-128)*(t-128)/255 },
	SoftLight:  softLight,
}

func softLight(b, t float64) float64 {
	bn, tn := b/255, t/255
	if t < 0.5*255 {
		return 255 * ((1-2*tn)*bn*bn + 2*tn*bn)
	}
	return 255 * ((1-(2*tn-1))*bn + (2*tn-1)*math.Sqrt(bn))
}

// ParseMode resolves a mode name, ignoring case.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	for _, m := range Modes {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown blend mode %q", fxerr.ErrInvalidArgument, s)
}

func (m Mode) fn() (formula, error) {
	pm, err := ParseMode(string(m))
	if err != nil {
		return nil, err
	}
	return formulas[pm], nil
}

// Merge blends top into bottom over the region both buffers cover, that is
// min(widths) x min(heights) anchored at the origin. It returns bottom.
func Merge(mode Mode, bottom, top *raster.Buffer) (*raster.Buffer, error) {
	return MergeAt(mode, bottom, top, 0, 0)
}

// MergeAt blends top into bottom with top's origin placed at (x,y) in bottom
// coordinates. Only the overlap is touched; an empty overlap is not an error.
func MergeAt(mode Mode, bottom, top *raster.Buffer, x, y int) (*raster.Buffer, error) {
	f, err := mode.fn()
	if err != nil {
		return nil, err
	}
	if bottom == nil || top == nil {
		return nil, fmt.Errorf("%w: blend %s: nil buffer", fxerr.ErrInvalidArgument, mode)
	}

	startX, startY := max(0, x), max(0, y)
	endX := min(bottom.Width, x+top.Width)
	endY := min(bottom.Height, y+top.Height)
	if startX >= endX || startY >= endY {
		return bottom, nil
	}

	start := time.Now()
	for yy := startY; yy < endY; yy++ {
		for xx := startX; xx < endX; xx++ {
			bi := bottom.Offset(xx, yy)
			ti := top.Offset(xx-x, yy-y)
			for c := 0; c < 3; c++ {
				b := float64(bottom.Pix[bi+c])
				t := float64(top.Pix[ti+c])
				bottom.Pix[bi+c] = raster.StoreRounded(f(b, t))
			}
		}
	}
	raster.Logger().Debug("blend", "mode", string(mode), "bottom", bottom.String(), "top", top.String(),
		"overlap", fmt.Sprintf("%dx%d", endX-startX, endY-startY), "elapsed", time.Since(start))
	return bottom, nil
}

// Blend folds layers bottom-up: layers[1] is merged into layers[0], then
// layers[2], and so on. The first layer receives the result. Every layer is
// checked before any is merged.
func Blend(mode Mode, layers ...*raster.Buffer) (*raster.Buffer, error) {
	if _, err := mode.fn(); err != nil {
		return nil, err
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: blend %s: no layers", fxerr.ErrInvalidArgument, mode)
	}
	for i, l := range layers {
		if l == nil {
			return nil, fmt.Errorf("%w: blend %s: layer %d is nil", fxerr.ErrInvalidArgument, mode, i)
		}
	}
	bottom := layers[0]
	for _, top := range layers[1:] {
		if _, err := Merge(mode, bottom, top); err != nil {
			return nil, err
		}
	}
	return bottom, nil
}
