package histogram

import (
	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// Bins is the number of histogram bins for 8-bit samples.
const Bins = 256

// Histogram maps channel names ("blue", "green", "red" for color, "gray"
// for single-channel) to exact per-value pixel counts.
type Histogram map[string][]int

// ChannelNames returns the histogram channel names for a layout, in legacy
// blue/green/red order.
func ChannelNames(o raster.ChannelOrder) []string {
	if o == raster.Gray {
		return []string{"gray"}
	}
	return []string{"blue", "green", "red"}
}

// Compute counts the pixels at each of the 256 sample values, per channel.
// The counts for every channel sum to width x height.
func Compute(r *raster.Raster) Histogram {
	names := ChannelNames(r.Order)
	ch := r.Channels()
	h := make(Histogram, ch)
	counts := make([][]int, ch)
	for c := range counts {
		counts[c] = make([]int, Bins)
	}
	for i, v := range r.Pix {
		counts[i%ch][v]++
	}
	for c, name := range names {
		h[name] = counts[c]
	}
	return h
}

// ChannelSummary condenses one channel's histogram for inspection payloads.
type ChannelSummary struct {
	Channel string  `json:"channel"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	Peak    int     `json:"peak"`
	Mean    float64 `json:"mean"`
}

// Summarize reports, per channel, the lowest and highest occupied bins, the
// most populated bin, and the count-weighted mean sample value. Channels
// are ordered blue/green/red (or gray alone).
func Summarize(h Histogram) []ChannelSummary {
	var order []string
	if _, ok := h["gray"]; ok {
		order = []string{"gray"}
	} else {
		order = []string{"blue", "green", "red"}
	}

	out := make([]ChannelSummary, 0, len(order))
	for _, name := range order {
		counts, ok := h[name]
		if !ok {
			continue
		}
		s := ChannelSummary{Channel: name}
		total := 0
		weighted := 0
		first, last, peak := -1, 0, 0
		for v, n := range counts {
			total += n
			weighted += v * n
			if n > 0 {
				if first < 0 {
					first = v
				}
				last = v
			}
			if n > counts[peak] {
				peak = v
			}
		}
		if first < 0 {
			first = 0
		}
		s.Min = first
		s.Max = last
		s.Peak = peak
		if total > 0 {
			s.Mean = float64(weighted) / float64(total)
		}
		out = append(out, s)
	}
	return out
}
