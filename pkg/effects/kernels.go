package effects

import "github.com/Fepozopo/filtr/pkg/raster"

// Fixed kernels. Weights are pre-scaled; the engine never renormalizes.
// These are shared by every registered definition and must not be written.
var (
	boxBlur = raster.MustKernel([][]float64{
		{1.0 / 9, 1.0 / 9, 1.0 / 9},
		{1.0 / 9, 1.0 / 9, 1.0 / 9},
		{1.0 / 9, 1.0 / 9, 1.0 / 9},
	})

	gaussianBlur = raster.MustKernel([][]float64{
		{1.0 / 273, 4.0 / 273, 7.0 / 273, 4.0 / 273, 1.0 / 273},
		{4.0 / 273, 16.0 / 273, 26.0 / 273, 16.0 / 273, 4.0 / 273},
		{7.0 / 273, 26.0 / 273, 41.0 / 273, 26.0 / 273, 7.0 / 273},
		{4.0 / 273, 16.0 / 273, 26.0 / 273, 16.0 / 273, 4.0 / 273},
		{1.0 / 273, 4.0 / 273, 7.0 / 273, 4.0 / 273, 1.0 / 273},
	})

	sharpen = raster.MustKernel([][]float64{
		{0.0, -0.2, 0.0},
		{-0.2, 1.8, -0.2},
		{0.0, -0.2, 0.0},
	})

	emboss = raster.MustKernel([][]float64{
		{-1, -1, 0},
		{-1, 1, 1},
		{0, 1, 1},
	})

	sobelH = raster.MustKernel([][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})

	sobelV = raster.MustKernel([][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
)

// BoxBlurKernel returns a copy of the 3x3 box blur.
func BoxBlurKernel() raster.Kernel { return raster.MustKernel(boxBlur) }

// GaussianBlurKernel returns a copy of the 5x5 Gaussian blur.
func GaussianBlurKernel() raster.Kernel { return raster.MustKernel(gaussianBlur) }

// SharpenKernel returns a copy of the sharpen kernel.
func SharpenKernel() raster.Kernel { return raster.MustKernel(sharpen) }

// EmbossKernel returns a copy of the emboss kernel.
func EmbossKernel() raster.Kernel { return raster.MustKernel(emboss) }

// SobelHorizontal returns a copy of the horizontal Sobel operator.
func SobelHorizontal() raster.Kernel { return raster.MustKernel(sobelH) }

// SobelVertical returns a copy of the vertical Sobel operator.
func SobelVertical() raster.Kernel { return raster.MustKernel(sobelV) }

// Blur styles.
const (
	BlurSimple   = "simple"
	BlurGaussian = "gaussian"
)

func blurKernels(a Args) ([]raster.Kernel, error) {
	if a.String(0) == BlurGaussian {
		return []raster.Kernel{GaussianBlurKernel()}, nil
	}
	return []raster.Kernel{BoxBlurKernel()}, nil
}

func fixedKernel(k raster.Kernel) func(Args) ([]raster.Kernel, error) {
	return func(Args) ([]raster.Kernel, error) {
		return []raster.Kernel{raster.MustKernel(k)}, nil
	}
}
