package histogram

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// ChannelStats holds per-channel descriptive statistics. Std is the
// population standard deviation.
type ChannelStats struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Median float64 `json:"median"`
}

// Statistics computes mean, population standard deviation, min, max, and
// median for each channel. Color channels are keyed "blue", "green", "red";
// a gray image is keyed "intensity", matching the historical payload.
func Statistics(r *raster.Raster) map[string]ChannelStats {
	names := ChannelNames(r.Order)
	if r.Order == raster.Gray {
		names = []string{"intensity"}
	}

	out := make(map[string]ChannelStats, len(names))
	for c, name := range names {
		vals := flatten(r.Plane(c))
		mean := stat.Mean(vals, nil)
		variance := stat.MomentAbout(2, vals, mean, nil)
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		out[name] = ChannelStats{
			Mean:   mean,
			Std:    math.Sqrt(variance),
			Min:    int(floats.Min(vals)),
			Max:    int(floats.Max(vals)),
			Median: percentile(sorted, 50),
		}
	}
	return out
}

func flatten(p [][]float64) []float64 {
	vals := make([]float64, 0, len(p)*len(p[0]))
	for _, row := range p {
		vals = append(vals, row...)
	}
	return vals
}
