package noise

import "math"

// nlmPlane runs non-local means over one channel plane. Each output sample
// averages the candidates in an odd search window around it, weighted by
// exp(-meanSquaredPatchDiff/h^2) over odd template patches. The candidate
// at the pixel itself always carries weight 1, so the denominator never
// vanishes.
func nlmPlane(p [][]float64, h float64, tmpl, search int) [][]float64 {
	rows, cols := len(p), len(p[0])
	rt := tmpl / 2
	rs := search / 2
	h2 := h * h

	out := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		out[y] = make([]float64, cols)
		for x := 0; x < cols; x++ {
			var num, den float64
			for ny := y - rs; ny <= y+rs; ny++ {
				for nx := x - rs; nx <= x+rs; nx++ {
					cy, cx := replicate(ny, rows), replicate(nx, cols)
					w := math.Exp(-patchDistance(p, y, x, cy, cx, rt) / h2)
					num += w * p[cy][cx]
					den += w
				}
			}
			out[y][x] = num / den
		}
	}
	return out
}

// patchDistance is the mean squared difference between the template
// patches centered on (y1,x1) and (y2,x2), with replicated borders.
func patchDistance(p [][]float64, y1, x1, y2, x2, radius int) float64 {
	rows, cols := len(p), len(p[0])
	var sum float64
	n := 0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			a := p[replicate(y1+dy, rows)][replicate(x1+dx, cols)]
			b := p[replicate(y2+dy, rows)][replicate(x2+dx, cols)]
			d := a - b
			sum += d * d
			n++
		}
	}
	return sum / float64(n)
}
