package histogram

import (
	"math"
	"sort"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// Default contrast stretch percentiles.
const (
	DefaultStretchLow  = 2.0
	DefaultStretchHigh = 98.0
)

// ContrastStretch remaps each channel linearly so the lowPct percentile
// lands at 0 and the highPct percentile at 255, clipping the tails. A
// channel whose two percentiles coincide is flattened to 0 rather than
// dividing by zero.
func ContrastStretch(r *raster.Raster, lowPct, highPct float64) (*raster.Raster, error) {
	if lowPct < 0 || highPct > 100 {
		return nil, raster.InvalidParam("percentiles", "must lie in [0,100], got %v and %v", lowPct, highPct)
	}
	if lowPct >= highPct {
		return nil, raster.InvalidParam("percentiles", "low percentile %v must be below high percentile %v", lowPct, highPct)
	}

	planes := make([][][]float64, r.Channels())
	for c := 0; c < r.Channels(); c++ {
		p := r.Plane(c)
		pLow, pHigh := planePercentiles(p, lowPct, highPct)
		scale := 0.0
		if pHigh > pLow {
			scale = 255 / (pHigh - pLow)
		}
		for y := range p {
			for x := range p[y] {
				p[y][x] = (p[y][x] - pLow) * scale
			}
		}
		planes[c] = p
	}
	return raster.FromPlanes(r.Order, planes...), nil
}

// planePercentiles computes two percentiles of a plane's values.
func planePercentiles(p [][]float64, lowPct, highPct float64) (float64, float64) {
	vals := flatten(p)
	sort.Float64s(vals)
	return percentile(vals, lowPct), percentile(vals, highPct)
}

// percentile interpolates linearly between order statistics of a sorted
// slice, matching the conventional idx = p/100 * (n-1) definition.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo < 0 {
		lo = 0
	}
	if hi > len(sorted)-1 {
		hi = len(sorted) - 1
	}
	frac := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
