package effects

import (
	"github.com/Fepozopo/filtr/pkg/curve"
	"github.com/Fepozopo/filtr/pkg/mathutil"
	"github.com/Fepozopo/filtr/pkg/raster"
)

// Curves remaps R, G and B through the tone curve defined by the four
// control points. The lookup table is built once per call.
func Curves(start, ctrl1, ctrl2, end curve.Point) raster.Transform {
	lut := curve.New(start, ctrl1, ctrl2, end).Table().LUT()
	return func(c raster.RGBA) raster.RGBA {
		c.R = lut.Map(c.R)
		c.G = lut.Map(c.G)
		c.B = lut.Map(c.B)
		return c
	}
}

// ExposePoints derives the tone curve used by Expose. p in [-100,100] maps
// to [-1,1].
func ExposePoints(p float64) (start, ctrl1, ctrl2, end curve.Point) {
	e := mathutil.MustNormalize(p, -1, 1, -100, 100)
	return curve.Point{X: 0, Y: 0},
		curve.Point{X: 0, Y: 255 * e},
		curve.Point{X: 255 - 255*e, Y: 255},
		curve.Point{X: 255, Y: 255}
}

// Expose brightens (p > 0) or darkens (p < 0) through a tone curve.
func Expose(p float64) raster.Transform {
	return Curves(ExposePoints(p))
}

func curvesArgs(a Args) raster.Transform {
	pt := func(i int) curve.Point {
		return curve.Point{X: a.Float(i), Y: a.Float(i + 1)}
	}
	return Curves(pt(0), pt(2), pt(4), pt(6))
}
