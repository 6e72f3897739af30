package spatial

import (
	"math"
	"sort"
)

// medianPlane replaces each sample with the median of its k x k window.
func medianPlane(p [][]float64, k int) [][]float64 {
	h, w := len(p), len(p[0])
	r := k / 2
	window := make([]float64, 0, k*k)

	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		row := make([]float64, w)
		for x := 0; x < w; x++ {
			window = window[:0]
			for dy := -r; dy <= r; dy++ {
				sy := replicate(y+dy, h)
				for dx := -r; dx <= r; dx++ {
					window = append(window, p[sy][replicate(x+dx, w)])
				}
			}
			sort.Float64s(window)
			row[x] = window[len(window)/2]
		}
		out[y] = row
	}
	return out
}

// bilateralPlane smooths one plane with a circular neighborhood of the
// given diameter, weighting each neighbor by its spatial distance and its
// intensity difference from the center pixel.
func bilateralPlane(p [][]float64, d int, sigmaColor, sigmaSpace float64) [][]float64 {
	radius := d / 2
	if radius < 1 {
		radius = int(math.Round(sigmaSpace * 1.5))
		if radius < 1 {
			radius = 1
		}
	}
	colorCoeff := -0.5 / (sigmaColor * sigmaColor)
	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)

	type tap struct {
		dx, dy int
		weight float64
	}
	taps := make([]tap, 0, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			rr := float64(dx*dx + dy*dy)
			if rr > float64(radius*radius) {
				continue
			}
			taps = append(taps, tap{dx, dy, math.Exp(spaceCoeff * rr)})
		}
	}

	h, w := len(p), len(p[0])
	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		row := make([]float64, w)
		for x := 0; x < w; x++ {
			center := p[y][x]
			num, den := 0.0, 0.0
			for _, t := range taps {
				v := p[replicate(y+t.dy, h)][replicate(x+t.dx, w)]
				diff := v - center
				wgt := t.weight * math.Exp(colorCoeff*diff*diff)
				num += wgt * v
				den += wgt
			}
			row[x] = num / den
		}
		out[y] = row
	}
	return out
}
