package noise

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// Estimator selects the noise standard deviation estimator. The set is
// closed; ParseEstimator rejects anything else.
type Estimator int

// Noise estimators.
const (
	// EstimatorMAD is the median absolute Laplacian response divided by
	// 0.6745, the robust sigma of a normal distribution.
	EstimatorMAD Estimator = iota
	// EstimatorLaplacian is sqrt(var(laplacian)/2).
	EstimatorLaplacian
	// EstimatorWavelet pools the variance of horizontal and vertical
	// first differences: sqrt((var(dh)+var(dv))/2). The name is
	// historical; no wavelet transform is involved.
	EstimatorWavelet
)

// String returns the wire name of the estimator.
func (e Estimator) String() string {
	switch e {
	case EstimatorMAD:
		return "mad"
	case EstimatorLaplacian:
		return "laplacian"
	case EstimatorWavelet:
		return "wavelet"
	}
	return "unknown"
}

// ParseEstimator maps a wire name to its Estimator.
func ParseEstimator(name string) (Estimator, error) {
	switch name {
	case "mad":
		return EstimatorMAD, nil
	case "laplacian":
		return EstimatorLaplacian, nil
	case "wavelet":
		return EstimatorWavelet, nil
	}
	return 0, &raster.UnsupportedOperationError{Kind: "noise estimator", Name: name}
}

// EstimateNoise estimates the noise standard deviation of r. Color input
// is converted to grayscale first. A perfectly flat image estimates 0.
func EstimateNoise(r *raster.Raster, method Estimator) float64 {
	p := r.Grayscale().Plane(0)
	switch method {
	case EstimatorMAD:
		return madSigma(p)
	case EstimatorLaplacian:
		return laplacianSigma(p)
	default:
		return waveletSigma(p)
	}
}

// madSigma estimates sigma from the median absolute Laplacian response.
func madSigma(p [][]float64) float64 {
	lap := laplacianResponse(p)
	abs := make([]float64, 0, len(lap)*len(lap[0]))
	for _, row := range lap {
		for _, v := range row {
			abs = append(abs, math.Abs(v))
		}
	}
	return median(abs) / 0.6745
}

func laplacianSigma(p [][]float64) float64 {
	lap := laplacianResponse(p)
	flat := make([]float64, 0, len(lap)*len(lap[0]))
	for _, row := range lap {
		flat = append(flat, row...)
	}
	return math.Sqrt(popVariance(flat) / 2)
}

func waveletSigma(p [][]float64) float64 {
	rows, cols := len(p), len(p[0])
	dh := make([]float64, 0, rows*(cols-1))
	for y := 0; y < rows; y++ {
		for x := 1; x < cols; x++ {
			dh = append(dh, p[y][x]-p[y][x-1])
		}
	}
	dv := make([]float64, 0, (rows-1)*cols)
	for y := 1; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dv = append(dv, p[y][x]-p[y-1][x])
		}
	}
	return math.Sqrt((popVariance(dh) + popVariance(dv)) / 2)
}

// laplacianResponse applies the 3x3 Laplacian without taking absolute
// values or clamping, replicating borders.
func laplacianResponse(p [][]float64) [][]float64 {
	rows, cols := len(p), len(p[0])
	out := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		out[y] = make([]float64, cols)
		for x := 0; x < cols; x++ {
			out[y][x] = p[replicate(y-1, rows)][x] +
				p[replicate(y+1, rows)][x] +
				p[y][replicate(x-1, cols)] +
				p[y][replicate(x+1, cols)] -
				4*p[y][x]
		}
	}
	return out
}

// median returns the middle of vals, averaging the two central entries
// when the count is even. vals is not modified.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// popVariance is the population variance, matching the divide-by-n
// convention used by the channel statistics.
func popVariance(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	mean := stat.Mean(vals, nil)
	return stat.MomentAbout(2, vals, mean, nil)
}
