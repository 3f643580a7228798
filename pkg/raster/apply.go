package raster

import (
	"fmt"
	"time"

	"github.com/Fepozopo/filtr/pkg/fxerr"
)

// Transform maps one pixel to its new value. It must depend only on the
// pixel it is given and on the parameters it closed over: Apply may call it
// from several goroutines at once. A panic inside it is reported as an error
// from Apply.
type Transform func(RGBA) RGBA

// Apply runs fn over every pixel of buf in place and returns buf. Results
// are clamped to [0,255] and truncated on write-back. If fn panics, the
// error is returned and buf may be partially written.
func Apply(buf *Buffer, fn Transform) (*Buffer, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", fxerr.ErrInvalidArgument)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: nil transform", fxerr.ErrInvalidArgument)
	}
	start := time.Now()
	w := buf.Width
	err := forEachBand(w, buf.Height, func(y0, y1 int) {
		for i := y0 * w * 4; i < y1*w*4; i += 4 {
			px := buf.Pix[i : i+4 : i+4]
			out := fn(RGBA{
				R: float64(px[0]),
				G: float64(px[1]),
				B: float64(px[2]),
				A: float64(px[3]),
			})
			buf.store(i, out)
		}
	})
	if err != nil {
		return buf, err
	}
	Logger().Debug("apply", "size", buf.String(), "workers", Workers(), "elapsed", time.Since(start))
	return buf, nil
}
