// Package mathutil holds the scalar helpers used by the pixel engines.
package mathutil

import (
	"fmt"
	"math"

	"github.com/Fepozopo/filtr/pkg/fxerr"
)

// Clamp bounds v to [lo,hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampByte bounds v to the 8-bit channel range [0,255].
func ClampByte(v float64) float64 {
	return Clamp(v, 0, 255)
}

// Distance returns the linear distance between a and b.
func Distance(a, b float64) float64 {
	return math.Sqrt((b - a) * (b - a))
}

// Normalize clamps v into [srcMin,srcMax] and rescales it linearly into
// [dstMin,dstMax]. An empty source range is rejected. The offset is
// multiplied before dividing so srcMax lands exactly on dstMax.
func Normalize(v, dstMin, dstMax, srcMin, srcMax float64) (float64, error) {
	if srcMin == srcMax {
		return 0, fmt.Errorf("%w: degenerate normalize range [%g,%g]", fxerr.ErrInvalidArgument, srcMin, srcMax)
	}
	lo, hi := srcMin, srcMax
	if lo > hi {
		lo, hi = hi, lo
	}
	return dstMin + (Clamp(v, lo, hi)-srcMin)*Distance(dstMin, dstMax)/Distance(srcMin, srcMax), nil
}

// NormalizeDefault maps v from the channel range [0,255] into [dstMin,dstMax].
func NormalizeDefault(v, dstMin, dstMax float64) float64 {
	return MustNormalize(v, dstMin, dstMax, 0, 255)
}

// MustNormalize is Normalize for constant source ranges. It panics if the
// range is degenerate.
func MustNormalize(v, dstMin, dstMax, srcMin, srcMax float64) float64 {
	out, err := Normalize(v, dstMin, dstMax, srcMin, srcMax)
	if err != nil {
		panic(err)
	}
	return out
}
