// Package curve builds tone-curve lookup tables from cubic Bézier curves.
//
// A curve is sampled at a fixed density and every sample writes
// table[int(x)] = int(y). Since x(t) is neither uniform nor guaranteed to be
// monotonic, the resulting Table is sparse: some intensities are never hit
// and some are written more than once (the last sample in increasing t wins).
// LUT turns that sparse table into a dense 256-entry lookup.
package curve

import "math"

// Samples is the number of t positions taken over [0,1).
const Samples = 1024

// Point is a control point in intensity space.
type Point struct {
	X, Y float64
}

// Bezier is a cubic curve weighted C1*t^3 + C2*3t^2(1-t) + C3*3t(1-t)^2 + C4*(1-t)^3.
// With this weighting t=0 sits on C4 and t=1 on C1.
type Bezier struct {
	C1, C2, C3, C4 Point
}

// New returns the curve through start, ctrl1, ctrl2 and end.
func New(start, ctrl1, ctrl2, end Point) Bezier {
	return Bezier{C1: start, C2: ctrl1, C3: ctrl2, C4: end}
}

// At evaluates the curve at t.
func (b Bezier) At(t float64) Point {
	u := 1 - t
	b1 := t * t * t
	b2 := 3 * t * t * u
	b3 := 3 * t * u * u
	b4 := u * u * u
	return Point{
		X: b.C1.X*b1 + b.C2.X*b2 + b.C3.X*b3 + b.C4.X*b4,
		Y: b.C1.Y*b1 + b.C2.Y*b2 + b.C3.Y*b3 + b.C4.Y*b4,
	}
}

// Table is a sparse intensity to intensity mapping.
type Table map[int]int

// Table samples the curve Samples times and records the truncated points.
func (b Bezier) Table() Table {
	tbl := make(Table, 256)
	for i := 0; i < Samples; i++ {
		p := b.At(float64(i) / Samples)
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			continue
		}
		tbl[int(p.X)] = int(p.Y)
	}
	return tbl
}

// Lookup returns the raw entry for v, if one was written.
func (t Table) Lookup(v int) (int, bool) {
	out, ok := t[v]
	return out, ok
}

// LUT is a dense channel lookup.
type LUT [256]uint8

// Identity returns the lookup that maps every intensity to itself.
func Identity() LUT {
	var l LUT
	for i := range l {
		l[i] = uint8(i)
	}
	return l
}

// LUT fills the gaps of the sparse table. A missing key takes the value of
// the nearest preceding key; keys before the first entry take the first
// entry's value. An empty table in [0,255] yields the identity.
func (t Table) LUT() LUT {
	first := -1
	for k := 0; k < 256; k++ {
		if _, ok := t[k]; ok {
			first = k
			break
		}
	}
	if first < 0 {
		return Identity()
	}
	var l LUT
	cur := clampEntry(t[first])
	for k := 0; k < 256; k++ {
		if v, ok := t[k]; ok {
			cur = clampEntry(v)
		}
		l[k] = cur
	}
	return l
}

func clampEntry(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Map looks up a channel value, clamping it into the table domain first.
func (l *LUT) Map(v float64) float64 {
	if v != v || v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return float64(l[int(v)])
}
