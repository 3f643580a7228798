package effects

import (
	"fmt"
	"math"

	"github.com/Fepozopo/filtr/pkg/fxerr"
	"github.com/Fepozopo/filtr/pkg/raster"
)

// Edge detector styles.
const (
	EdgeSimple = "simple"
	EdgeSobel  = "sobel"
)

// EdgeDetect returns a new buffer holding the edges of src. "simple" takes
// the absolute difference against the left neighbor with alpha 255, and
// column 0, which has no neighbor, becomes transparent black. "sobel"
// combines the horizontal and vertical Sobel responses per channel and
// keeps the source alpha.
func EdgeDetect(src *raster.Buffer, style string) (*raster.Buffer, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil buffer", fxerr.ErrInvalidArgument)
	}
	switch style {
	case EdgeSimple, "":
		return edgeSimple(src), nil
	case EdgeSobel:
		return edgeSobel(src)
	default:
		return nil, fmt.Errorf("%w: unknown edge detector %q", fxerr.ErrInvalidArgument, style)
	}
}

func edgeSimple(src *raster.Buffer) *raster.Buffer {
	out := src.Clone()
	w := src.Width
	for y := 0; y < src.Height; y++ {
		row := y * w * 4
		out.Pix[row+0], out.Pix[row+1], out.Pix[row+2], out.Pix[row+3] = 0, 0, 0, 0
		for x := 1; x < w; x++ {
			i := row + x*4
			l := i - 4
			for c := 0; c < 3; c++ {
				out.Pix[i+c] = uint8(math.Abs(float64(src.Pix[i+c]) - float64(src.Pix[l+c])))
			}
			out.Pix[i+3] = 255
		}
	}
	return out
}

func edgeSobel(src *raster.Buffer) (*raster.Buffer, error) {
	gh, err := raster.Convolve(src, sobelH)
	if err != nil {
		return nil, err
	}
	gv, err := raster.Convolve(src, sobelV)
	if err != nil {
		return nil, err
	}
	out := src.Clone()
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			h := float64(gh.Pix[i+c])
			v := float64(gv.Pix[i+c])
			out.Pix[i+c] = raster.StoreRounded(math.Sqrt(h*h + v*v))
		}
	}
	return out, nil
}

func runEdge(buf *raster.Buffer, a Args) error {
	out, err := EdgeDetect(buf, a.String(0))
	if err != nil {
		return err
	}
	buf.Adopt(out)
	return nil
}
