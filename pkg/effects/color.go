package effects

import (
	"fmt"
	"math"

	"github.com/Fepozopo/filtr/pkg/fxerr"
	"github.com/Fepozopo/filtr/pkg/mathutil"
	"github.com/Fepozopo/filtr/pkg/raster"
)

// RGB is a per-channel parameter triple.
type RGB struct {
	R, G, B float64
}

// TintParams maps [Min,Max] of each channel onto [0,255].
type TintParams struct {
	Min, Max RGB
}

// percent maps a user-facing [-100,100] percentage onto [lo,hi].
func percent(p, lo, hi float64) float64 {
	return mathutil.MustNormalize(p, lo, hi, -100, 100)
}

// Adjust scales each channel by 1+p.
func Adjust(p RGB) raster.Transform {
	return func(c raster.RGBA) raster.RGBA {
		c.R *= 1 + p.R
		c.G *= 1 + p.G
		c.B *= 1 + p.B
		return c
	}
}

// Brighten adds an offset to every channel. p in [-100,100] maps to [-255,255].
func Brighten(p float64) raster.Transform {
	d := percent(p, -255, 255)
	return func(c raster.RGBA) raster.RGBA {
		c.R += d
		c.G += d
		c.B += d
		return c
	}
}

// Alpha sets the alpha channel. p in [-100,100] maps to [0,255].
func Alpha(p float64) raster.Transform {
	a := percent(p, 0, 255)
	return func(c raster.RGBA) raster.RGBA {
		c.A = a
		return c
	}
}

// Opacity multiplies the alpha channel by f.
func Opacity(f float64) raster.Transform {
	return func(c raster.RGBA) raster.RGBA {
		c.A *= f
		return c
	}
}

// Saturate moves each channel towards or away from the pixel's mean.
// p in [-100,100] maps to a factor in [0,2]; 0 leaves the pixel unchanged.
func Saturate(p float64) raster.Transform {
	f := percent(p, 0, 2)
	return func(c raster.RGBA) raster.RGBA {
		avg := (c.R + c.G + c.B) / 3
		c.R = avg + f*(c.R-avg)
		c.G = avg + f*(c.G-avg)
		c.B = avg + f*(c.B-avg)
		return c
	}
}

// Contrast scales channels around mid-gray. p in [-100,100] maps to [0,2].
func Contrast(p float64) raster.Transform {
	f := percent(p, 0, 2)
	calc := func(v float64) float64 {
		return 255 * ((v/255-0.5)*f + 0.5)
	}
	return func(c raster.RGBA) raster.RGBA {
		c.R = calc(c.R)
		c.G = calc(c.G)
		c.B = calc(c.B)
		return c
	}
}

// Gamma raises each channel to a power. p in [-100,100] maps to [0,2].
func Gamma(p float64) raster.Transform {
	e := percent(p, 0, 2)
	return func(c raster.RGBA) raster.RGBA {
		c.R = math.Pow(c.R, e)
		c.G = math.Pow(c.G, e)
		c.B = math.Pow(c.B, e)
		return c
	}
}

// Invert replaces each channel with its complement.
func Invert() raster.Transform {
	return func(c raster.RGBA) raster.RGBA {
		c.R = 255 - c.R
		c.G = 255 - c.G
		c.B = 255 - c.B
		return c
	}
}

// Grayscale replaces each channel with the channel average.
func Grayscale() raster.Transform {
	return func(c raster.RGBA) raster.RGBA {
		avg := (c.R + c.G + c.B) / 3
		c.R, c.G, c.B = avg, avg, avg
		return c
	}
}

// Sepia applies the classic sepia color matrix.
func Sepia() raster.Transform {
	return func(c raster.RGBA) raster.RGBA {
		r, g, b := c.R, c.G, c.B
		c.R = r*0.393 + g*0.769 + b*0.189
		c.G = r*0.349 + g*0.686 + b*0.168
		c.B = r*0.272 + g*0.534 + b*0.131
		return c
	}
}

// Posterize quantizes each channel down to multiples of floor(255/levels).
// levels is clamped to [1,255]. With one level the step is 255, so every
// channel below 255 becomes 0 and 255 stays 255.
func Posterize(levels int) raster.Transform {
	levels = int(mathutil.Clamp(float64(levels), 1, 255))
	step := math.Floor(255 / float64(levels))
	q := func(v float64) float64 {
		return math.Floor(v/step) * step
	}
	return func(c raster.RGBA) raster.RGBA {
		c.R = q(c.R)
		c.G = q(c.G)
		c.B = q(c.B)
		return c
	}
}

// Threshold turns a pixel black if any channel is below t, white otherwise.
func Threshold(t float64) raster.Transform {
	return func(c raster.RGBA) raster.RGBA {
		v := 255.0
		if c.R < t || c.G < t || c.B < t {
			v = 0
		}
		c.R, c.G, c.B = v, v, v
		return c
	}
}

// Tint stretches [Min,Max] of each channel to [0,255].
func Tint(p TintParams) (raster.Transform, error) {
	if p.Min.R == p.Max.R || p.Min.G == p.Max.G || p.Min.B == p.Max.B {
		return nil, fmt.Errorf("%w: tint bounds must differ per channel", fxerr.ErrInvalidArgument)
	}
	sr := 255 / (p.Max.R - p.Min.R)
	sg := 255 / (p.Max.G - p.Min.G)
	sb := 255 / (p.Max.B - p.Min.B)
	return func(c raster.RGBA) raster.RGBA {
		c.R = (c.R - p.Min.R) * sr
		c.G = (c.G - p.Min.G) * sg
		c.B = (c.B - p.Min.B) * sb
		return c
	}, nil
}

// Mask ANDs each channel with the given bit mask.
func Mask(r, g, b int) raster.Transform {
	return func(c raster.RGBA) raster.RGBA {
		c.R = float64(int(c.R) & r)
		c.G = float64(int(c.G) & g)
		c.B = float64(int(c.B) & b)
		return c
	}
}

// Bias reshapes each channel with a perceptual brightness curve steered by v.
func Bias(v float64) (raster.Transform, error) {
	if v <= 0 {
		return nil, fmt.Errorf("%w: bias must be positive, got %g", fxerr.ErrInvalidArgument, v)
	}
	k := 1/v - 1.9
	calc := func(ch float64) float64 {
		f := ch / 255
		return ch * (f / (k*(0.9-f) + 1))
	}
	return func(c raster.RGBA) raster.RGBA {
		c.R = calc(c.R)
		c.G = calc(c.G)
		c.B = calc(c.B)
		return c
	}, nil
}

// Fill sets every pixel's color, keeping alpha.
func Fill(p RGB) raster.Transform {
	return func(c raster.RGBA) raster.RGBA {
		c.R, c.G, c.B = p.R, p.G, p.B
		return c
	}
}

// Subtract removes a constant from each channel.
func Subtract(p RGB) raster.Transform {
	return func(c raster.RGBA) raster.RGBA {
		c.R -= p.R
		c.G -= p.G
		c.B -= p.B
		return c
	}
}
