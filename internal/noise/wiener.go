package noise

// wienerPlane runs an adaptive Wiener filter with a 3x3 analysis window.
// Where the local variance exceeds the noise floor the sample keeps a
// proportional share of its deviation from the local mean; where it does
// not, the output collapses to the local mean. A window with zero variance
// and zero noise floor also collapses to the mean rather than dividing by
// zero.
func wienerPlane(p [][]float64, noiseVariance float64) [][]float64 {
	rows, cols := len(p), len(p[0])
	mean := boxMean3(p)
	sq := make([][]float64, rows)
	for y, row := range p {
		sq[y] = make([]float64, cols)
		for x, v := range row {
			sq[y][x] = v * v
		}
	}
	meanSq := boxMean3(sq)

	out := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		out[y] = make([]float64, cols)
		for x := 0; x < cols; x++ {
			m := mean[y][x]
			variance := meanSq[y][x] - m*m
			if variance < 0 {
				variance = 0
			}
			num := variance - noiseVariance
			if num < 0 {
				num = 0
			}
			den := variance
			if noiseVariance > den {
				den = noiseVariance
			}
			if den == 0 {
				out[y][x] = m
				continue
			}
			out[y][x] = m + num/den*(p[y][x]-m)
		}
	}
	return out
}

// boxMean3 averages each sample with its 3x3 neighborhood, replicating
// borders.
func boxMean3(p [][]float64) [][]float64 {
	rows, cols := len(p), len(p[0])
	out := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		out[y] = make([]float64, cols)
		for x := 0; x < cols; x++ {
			var sum float64
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					sum += p[replicate(y+dy, rows)][replicate(x+dx, cols)]
				}
			}
			out[y][x] = sum / 9
		}
	}
	return out
}
