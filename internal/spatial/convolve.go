package spatial

import (
	"math"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// replicate clamps a sample coordinate to [0, n-1], extending the edge
// pixels outward.
func replicate(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// convolvePlane correlates a 2D kernel with one plane, anchored at the
// kernel center, with edge replication. This is correlation rather than
// flipped convolution, matching the historical filter behavior.
func convolvePlane(p [][]float64, kernel [][]float64) [][]float64 {
	h, w := len(p), len(p[0])
	kh, kw := len(kernel), len(kernel[0])
	ay, ax := kh/2, kw/2

	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		row := make([]float64, w)
		for x := 0; x < w; x++ {
			sum := 0.0
			for ky := 0; ky < kh; ky++ {
				sy := replicate(y+ky-ay, h)
				for kx := 0; kx < kw; kx++ {
					sum += kernel[ky][kx] * p[sy][replicate(x+kx-ax, w)]
				}
			}
			row[x] = sum
		}
		out[y] = row
	}
	return out
}

// sepConvolve runs a horizontal pass with kx and a vertical pass with ky.
// Separable kernels make the large blurs linear in kernel size.
func sepConvolve(p [][]float64, kx, ky []float64) [][]float64 {
	h, w := len(p), len(p[0])
	rx, ry := len(kx)/2, len(ky)/2

	mid := make([][]float64, h)
	for y := 0; y < h; y++ {
		row := make([]float64, w)
		for x := 0; x < w; x++ {
			sum := 0.0
			for i, kv := range kx {
				sum += kv * p[y][replicate(x+i-rx, w)]
			}
			row[x] = sum
		}
		mid[y] = row
	}

	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		out[y] = make([]float64, w)
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			sum := 0.0
			for i, kv := range ky {
				sum += kv * mid[replicate(y+i-ry, h)][x]
			}
			out[y][x] = sum
		}
	}
	return out
}

// mapPlanes applies fn to every channel independently and reassembles the
// result with the input's layout.
func mapPlanes(r *raster.Raster, fn func([][]float64) [][]float64) *raster.Raster {
	planes := make([][][]float64, r.Channels())
	for c := range planes {
		planes[c] = fn(r.Plane(c))
	}
	return raster.FromPlanes(r.Order, planes...)
}

// gaussianKernel1D samples a normalized 1D Gaussian of the given width.
// A non-positive sigma is derived from the size with the conventional
// 0.3*((k-1)*0.5 - 1) + 0.8 rule, so blur size alone fully determines the
// kernel when callers leave sigma unset.
func gaussianKernel1D(k int, sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 0.3*(float64(k-1)*0.5-1) + 0.8
	}
	c := float64(k-1) / 2
	kernel := make([]float64, k)
	sum := 0.0
	for i := range kernel {
		d := float64(i) - c
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// gaussianBlurPlane blurs one plane with a k x k Gaussian.
func gaussianBlurPlane(p [][]float64, k int, sigma float64) [][]float64 {
	kernel := gaussianKernel1D(k, sigma)
	return sepConvolve(p, kernel, kernel)
}

// kernelSizeForSigma picks the kernel width covering three standard
// deviations on each side.
func kernelSizeForSigma(sigma float64) int {
	k := 2*int(math.Round(3*sigma)) + 1
	if k < 3 {
		k = 3
	}
	return k
}

// conv1 fully convolves two small 1D kernels.
func conv1(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// binomialRow returns the binomial smoothing kernel of width n
// (n=1: [1], n=3: [1 2 1], n=5: [1 4 6 4 1]).
func binomialRow(n int) []float64 {
	row := []float64{1}
	for len(row) < n {
		row = conv1(row, []float64{1, 1})
	}
	return row
}

// derivRow returns the width-n first-derivative kernel used by the Sobel
// operator (n=3: [-1 0 1], n=5: [-1 -2 0 2 1]).
func derivRow(n int) []float64 {
	row := []float64{-1, 0, 1}
	for len(row) < n {
		row = conv1(row, []float64{1, 1})
	}
	return row
}

// secondDerivRow returns the width-n second-derivative kernel
// (n=3: [1 -2 1]).
func secondDerivRow(n int) []float64 {
	row := []float64{1, -2, 1}
	for len(row) < n {
		row = conv1(row, []float64{1, 1})
	}
	return row
}

// outer builds the 2D kernel col^T * row.
func outer(col, row []float64) [][]float64 {
	out := make([][]float64, len(col))
	for y, cv := range col {
		r := make([]float64, len(row))
		for x, rv := range row {
			r[x] = cv * rv
		}
		out[y] = r
	}
	return out
}
