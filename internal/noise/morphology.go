package noise

// ellipticalElement builds a boolean structuring element of the given odd
// size with true cells inside the inscribed ellipse. Size 1 degenerates to
// a single cell.
func ellipticalElement(size int) [][]bool {
	elem := make([][]bool, size)
	for i := range elem {
		elem[i] = make([]bool, size)
	}
	if size == 1 {
		elem[0][0] = true
		return elem
	}
	c := float64(size-1) / 2
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			di := (float64(i) - c) / c
			dj := (float64(j) - c) / c
			elem[i][j] = di*di+dj*dj <= 1
		}
	}
	return elem
}

// erode replaces each sample with the minimum over the structuring
// element. Borders replicate the nearest sample.
func erode(p [][]float64, elem [][]bool) [][]float64 {
	return rankFilter(p, elem, func(best, v float64) bool { return v < best })
}

// dilate replaces each sample with the maximum over the structuring
// element.
func dilate(p [][]float64, elem [][]bool) [][]float64 {
	return rankFilter(p, elem, func(best, v float64) bool { return v > best })
}

// opening is erosion followed by dilation; it removes features brighter
// than their surroundings that the element cannot fit inside.
func opening(p [][]float64, elem [][]bool) [][]float64 {
	return dilate(erode(p, elem), elem)
}

// closing is dilation followed by erosion; the dual of opening for dark
// features.
func closing(p [][]float64, elem [][]bool) [][]float64 {
	return erode(dilate(p, elem), elem)
}

func rankFilter(p [][]float64, elem [][]bool, better func(best, v float64) bool) [][]float64 {
	h, w := len(p), len(p[0])
	radius := len(elem) / 2
	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		out[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			best := p[y][x]
			for i, row := range elem {
				sy := replicate(y+i-radius, h)
				for j, on := range row {
					if !on {
						continue
					}
					v := p[sy][replicate(x+j-radius, w)]
					if better(best, v) {
						best = v
					}
				}
			}
			out[y][x] = best
		}
	}
	return out
}

// replicate clamps an index to [0, n), extending the border sample.
func replicate(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
