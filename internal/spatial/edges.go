package spatial

import (
	"math"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// sobelKernels returns the separable derivative and smoothing kernels for
// an aperture size. Size 1 means the plain [-1 0 1] difference without
// smoothing.
func sobelKernels(k int) (deriv, smooth []float64) {
	if k == 1 {
		return []float64{-1, 0, 1}, []float64{1}
	}
	return derivRow(k), binomialRow(k)
}

// sobelGradients computes the horizontal and vertical derivative planes.
func sobelGradients(p [][]float64, k int) (gx, gy [][]float64) {
	deriv, smooth := sobelKernels(k)
	return sepConvolve(p, deriv, smooth), sepConvolve(p, smooth, deriv)
}

// sobelMagnitude converts to grayscale and returns the gradient magnitude
// sqrt(gx^2 + gy^2), clamped to [0, 255]. The output is single-channel.
func sobelMagnitude(r *raster.Raster, k int) *raster.Raster {
	p := r.Grayscale().Plane(0)
	gx, gy := sobelGradients(p, k)
	for y := range p {
		for x := range p[y] {
			p[y][x] = math.Sqrt(gx[y][x]*gx[y][x] + gy[y][x]*gy[y][x])
		}
	}
	return raster.FromPlanes(raster.Gray, p)
}

// laplacianEdge converts to grayscale and returns the absolute
// second-derivative response, clamped to [0, 255]. The output is
// single-channel.
func laplacianEdge(r *raster.Raster, k int) *raster.Raster {
	p := r.Grayscale().Plane(0)
	var lap [][]float64
	if k == 1 {
		lap = convolvePlane(p, [][]float64{
			{0, 1, 0},
			{1, -4, 1},
			{0, 1, 0},
		})
	} else {
		d2 := secondDerivRow(k)
		smooth := binomialRow(k)
		xx := sepConvolve(p, d2, smooth)
		yy := sepConvolve(p, smooth, d2)
		lap = xx
		for y := range lap {
			for x := range lap[y] {
				lap[y][x] += yy[y][x]
			}
		}
	}
	for y := range lap {
		for x := range lap[y] {
			lap[y][x] = math.Abs(lap[y][x])
		}
	}
	return raster.FromPlanes(raster.Gray, lap)
}

// cannySmoothing is the classic 5x5 Gaussian (sigma ~1.4) used to settle
// noise before gradient computation, normalized by its sum of 273.
var cannySmoothing = [][]float64{
	{1. / 273, 4. / 273, 7. / 273, 4. / 273, 1. / 273},
	{4. / 273, 16. / 273, 26. / 273, 16. / 273, 4. / 273},
	{7. / 273, 26. / 273, 41. / 273, 26. / 273, 7. / 273},
	{4. / 273, 16. / 273, 26. / 273, 16. / 273, 4. / 273},
	{1. / 273, 4. / 273, 7. / 273, 4. / 273, 1. / 273},
}

// cannyEdge runs the full Canny pipeline: Gaussian smoothing, Sobel
// gradients, non-maximum suppression along the gradient direction, and
// two-threshold hysteresis. The result holds exactly 0 or 255.
func cannyEdge(r *raster.Raster, t1, t2 float64) *raster.Raster {
	low, high := t1, t2
	if low > high {
		low, high = high, low
	}

	p := r.Grayscale().Plane(0)
	h, w := len(p), len(p[0])
	blurred := convolvePlane(p, cannySmoothing)
	gx, gy := sobelGradients(blurred, 3)

	magnitude := make([][]float64, h)
	direction := make([][]float64, h)
	for y := 0; y < h; y++ {
		magnitude[y] = make([]float64, w)
		direction[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			magnitude[y][x] = math.Sqrt(gx[y][x]*gx[y][x] + gy[y][x]*gy[y][x])
			direction[y][x] = math.Atan2(gy[y][x], gx[y][x])
		}
	}

	// Non-maximum suppression: keep a pixel only if it is at least as
	// strong as both neighbors along its gradient direction.
	suppressed := make([][]float64, h)
	for y := 0; y < h; y++ {
		suppressed[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			if y == 0 || y == h-1 || x == 0 || x == w-1 {
				continue
			}
			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[y][x-1]
				n2 = magnitude[y][x+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[y-1][x+1]
				n2 = magnitude[y+1][x-1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[y-1][x]
				n2 = magnitude[y+1][x]
			} else {
				n1 = magnitude[y-1][x-1]
				n2 = magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	// Hysteresis: strong pixels always survive; weak pixels survive only
	// next to a strong one.
	out := raster.New(w, h, raster.Gray)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			val := suppressed[y][x]
			if val >= high {
				out.Pix[y*w+x] = 255
				continue
			}
			if val < low {
				continue
			}
			strong := false
			for ky := -1; ky <= 1 && !strong; ky++ {
				for kx := -1; kx <= 1 && !strong; kx++ {
					if suppressed[replicate(y+ky, h)][replicate(x+kx, w)] >= high {
						strong = true
					}
				}
			}
			if strong {
				out.Pix[y*w+x] = 255
			}
		}
	}
	return out
}
