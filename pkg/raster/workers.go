package raster

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// minParallelPixels is the buffer area below which a pass runs on the
// calling goroutine.
const minParallelPixels = 64 * 64

var workerLimit atomic.Int64

// SetWorkers sets how many row bands a pass may process concurrently.
// n <= 0 restores the default of runtime.GOMAXPROCS(0); 1 disables
// parallelism.
func SetWorkers(n int) {
	if n < 0 {
		n = 0
	}
	workerLimit.Store(int64(n))
}

// Workers returns the effective worker limit.
func Workers() int {
	if n := int(workerLimit.Load()); n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// forEachBand splits rows [0,height) into contiguous bands and calls fn for
// each one. Bands never overlap, so fn may write its rows of a shared output
// without locking as long as it only reads from finalized input. A panic in
// fn is recovered and returned as an error; the other bands still run.
func forEachBand(width, height int, fn func(y0, y1 int)) error {
	n := Workers()
	if n > height {
		n = height
	}
	if n <= 1 || width*height < minParallelPixels {
		return runBand(0, height, fn)
	}
	band := (height + n - 1) / n
	var g errgroup.Group
	g.SetLimit(n)
	for y0 := 0; y0 < height; y0 += band {
		y0, y1 := y0, min(y0+band, height)
		g.Go(func() error {
			return runBand(y0, y1, fn)
		})
	}
	return g.Wait()
}

func runBand(y0, y1 int, fn func(y0, y1 int)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("raster: panic in rows %d-%d: %v", y0, y1, r)
		}
	}()
	fn(y0, y1)
	return nil
}
