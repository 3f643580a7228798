package effects

import (
	"github.com/Fepozopo/filtr/pkg/raster"
)

func req(name, typ, desc string) ArgSpec {
	return ArgSpec{Name: name, Type: typ, Required: true, Description: desc}
}

func rgbArgs(prefix, desc string) []ArgSpec {
	return []ArgSpec{
		req(prefix+"R", ArgFloat, "red "+desc),
		req(prefix+"G", ArgFloat, "green "+desc),
		req(prefix+"B", ArgFloat, "blue "+desc),
	}
}

func percentArg(name string) []ArgSpec {
	return []ArgSpec{req(name, ArgFloat, "percentage in [-100,100]")}
}

func rgbOf(a Args, i int) RGB {
	return RGB{R: a.Float(i), G: a.Float(i + 1), B: a.Float(i + 2)}
}

func pixel(spec Spec, fn func(Args) (raster.Transform, error)) Definition {
	return Definition{Kind: PerPixel, Spec: spec, Pixel: fn}
}

func fixed(spec Spec, fn func(Args) raster.Transform) Definition {
	return pixel(spec, func(a Args) (raster.Transform, error) { return fn(a), nil })
}

// builtins is the authoritative list of effects in the Default registry.
func builtins() []Definition {
	return []Definition{
		fixed(Spec{
			Name:        "adjust",
			Args:        rgbArgs("", "factor, channel *= 1+factor"),
			Usage:       "adjust <r> <g> <b>",
			Description: "Scale each channel by 1+factor.",
		}, func(a Args) raster.Transform { return Adjust(rgbOf(a, 0)) }),
		fixed(Spec{
			Name:        "brighten",
			Args:        percentArg("amount"),
			Usage:       "brighten <amount>",
			Description: "Add a constant to every channel; [-100,100] maps to [-255,255].",
		}, func(a Args) raster.Transform { return Brighten(a.Float(0)) }),
		fixed(Spec{
			Name:        "alpha",
			Args:        percentArg("amount"),
			Usage:       "alpha <amount>",
			Description: "Set alpha; [-100,100] maps to [0,255].",
		}, func(a Args) raster.Transform { return Alpha(a.Float(0)) }),
		fixed(Spec{
			Name:        "opacity",
			Args:        []ArgSpec{req("factor", ArgFloat, "alpha multiplier")},
			Usage:       "opacity <factor>",
			Description: "Multiply alpha by a factor.",
		}, func(a Args) raster.Transform { return Opacity(a.Float(0)) }),
		fixed(Spec{
			Name:        "saturate",
			Args:        percentArg("amount"),
			Usage:       "saturate <amount>",
			Description: "Scale distance from the pixel mean; [-100,100] maps to [0,2].",
		}, func(a Args) raster.Transform { return Saturate(a.Float(0)) }),
		fixed(Spec{
			Name:        "contrast",
			Args:        percentArg("amount"),
			Usage:       "contrast <amount>",
			Description: "Scale around mid-gray; [-100,100] maps to [0,2].",
		}, func(a Args) raster.Transform { return Contrast(a.Float(0)) }),
		fixed(Spec{
			Name:        "gamma",
			Args:        percentArg("amount"),
			Usage:       "gamma <amount>",
			Description: "Raise channels to a power; [-100,100] maps to [0,2].",
		}, func(a Args) raster.Transform { return Gamma(a.Float(0)) }),
		fixed(Spec{
			Name:        "invert",
			Usage:       "invert",
			Description: "Replace each channel with 255-channel.",
		}, func(Args) raster.Transform { return Invert() }),
		fixed(Spec{
			Name:        "grayscale",
			Usage:       "grayscale",
			Description: "Average the color channels.",
		}, func(Args) raster.Transform { return Grayscale() }),
		fixed(Spec{
			Name:        "sepia",
			Usage:       "sepia",
			Description: "Classic sepia color matrix.",
		}, func(Args) raster.Transform { return Sepia() }),
		fixed(Spec{
			Name:        "posterize",
			Args:        []ArgSpec{req("levels", ArgInt, "quantization levels in [1,255]")},
			Usage:       "posterize <levels>",
			Description: "Quantize channels to multiples of floor(255/levels).",
		}, func(a Args) raster.Transform { return Posterize(a.Int(0)) }),
		fixed(Spec{
			Name:        "threshold",
			Args:        []ArgSpec{req("value", ArgFloat, "threshold in [0,255]")},
			Usage:       "threshold <value>",
			Description: "Black if any channel is below the value, white otherwise.",
		}, func(a Args) raster.Transform { return Threshold(a.Float(0)) }),
		pixel(Spec{
			Name:        "tint",
			Args:        append(rgbArgs("min", "lower bound"), rgbArgs("max", "upper bound")...),
			Usage:       "tint <minR> <minG> <minB> <maxR> <maxG> <maxB>",
			Description: "Stretch each channel's [min,max] onto [0,255].",
		}, func(a Args) (raster.Transform, error) {
			return Tint(TintParams{Min: rgbOf(a, 0), Max: rgbOf(a, 3)})
		}),
		fixed(Spec{
			Name: "mask",
			Args: []ArgSpec{
				req("maskR", ArgInt, "red bit mask"),
				req("maskG", ArgInt, "green bit mask"),
				req("maskB", ArgInt, "blue bit mask"),
			},
			Usage:       "mask <r> <g> <b>",
			Description: "Bitwise AND each channel with a mask.",
		}, func(a Args) raster.Transform { return Mask(a.Int(0), a.Int(1), a.Int(2)) }),
		pixel(Spec{
			Name:        "bias",
			Args:        []ArgSpec{req("value", ArgFloat, "bias, greater than 0")},
			Usage:       "bias <value>",
			Description: "Perceptual brightness bias curve.",
		}, func(a Args) (raster.Transform, error) { return Bias(a.Float(0)) }),
		fixed(Spec{
			Name:        "fill",
			Args:        rgbArgs("", "value"),
			Usage:       "fill <r> <g> <b>",
			Description: "Fill with a color, keeping alpha.",
		}, func(a Args) raster.Transform { return Fill(rgbOf(a, 0)) }),
		fixed(Spec{
			Name:        "subtract",
			Args:        rgbArgs("", "amount"),
			Usage:       "subtract <r> <g> <b>",
			Description: "Subtract a constant from each channel.",
		}, func(a Args) raster.Transform { return Subtract(rgbOf(a, 0)) }),
		{
			Kind: Convolution,
			Spec: Spec{
				Name:        "blur",
				Args:        []ArgSpec{{Name: "style", Type: ArgEnum, Default: BlurSimple, Description: "simple (3x3 box) or gaussian (5x5)", Options: []string{BlurSimple, BlurGaussian}}},
				Usage:       "blur [simple|gaussian]",
				Description: "Convolution blur.",
			},
			Kernels: blurKernels,
		},
		{
			Kind:    Convolution,
			Spec:    Spec{Name: "sharpen", Usage: "sharpen", Description: "Convolution sharpen."},
			Kernels: fixedKernel(sharpen),
		},
		{
			Kind:    Convolution,
			Spec:    Spec{Name: "emboss", Usage: "emboss", Description: "Emboss the edges of the image."},
			Kernels: fixedKernel(emboss),
		},
		{
			Kind:    Convolution,
			Spec:    Spec{Name: "bump", Usage: "bump", Description: "Alias of emboss."},
			Kernels: fixedKernel(emboss),
		},
		{
			Kind: Custom,
			Spec: Spec{
				Name:        "edge",
				Args:        []ArgSpec{{Name: "detector", Type: ArgEnum, Default: EdgeSimple, Description: "simple or sobel", Options: []string{EdgeSimple, EdgeSobel}}},
				Usage:       "edge [simple|sobel]",
				Description: "Edge detection.",
			},
			Run: runEdge,
		},
		fixed(Spec{
			Name: "curves",
			Args: []ArgSpec{
				req("startX", ArgFloat, "start point x"), req("startY", ArgFloat, "start point y"),
				req("ctrl1X", ArgFloat, "first control x"), req("ctrl1Y", ArgFloat, "first control y"),
				req("ctrl2X", ArgFloat, "second control x"), req("ctrl2Y", ArgFloat, "second control y"),
				req("endX", ArgFloat, "end point x"), req("endY", ArgFloat, "end point y"),
			},
			Usage:       "curves <sx> <sy> <c1x> <c1y> <c2x> <c2y> <ex> <ey>",
			Description: "Remap channels through a cubic Bézier tone curve.",
		}, curvesArgs),
		fixed(Spec{
			Name:        "expose",
			Args:        percentArg("amount"),
			Usage:       "expose <amount>",
			Description: "Exposure tone curve; [-100,100] maps to [-1,1].",
		}, func(a Args) raster.Transform { return Expose(a.Float(0)) }),
	}
}
