package frequency

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// Spectrum is the polar form of a 2D discrete Fourier transform: two
// same-shaped grids holding magnitude (non-negative) and phase (in
// (-pi, pi]). Centered records whether the quadrants were swapped to move
// the zero-frequency coefficient to the geometric center.
type Spectrum struct {
	Magnitude [][]float64
	Phase     [][]float64
	Centered  bool
}

// Forward computes the 2D DFT of the grayscale rendering of r. With center
// set, the spectrum is rolled so the zero-frequency coefficient lands at
// (rows/2, cols/2).
func Forward(r *raster.Raster, center bool) *Spectrum {
	f := fft.FFT2Real(r.Grayscale().Plane(0))
	if center {
		f = roll(f, len(f)/2, len(f[0])/2)
	}
	h, w := len(f), len(f[0])
	mag := make([][]float64, h)
	phase := make([][]float64, h)
	for y := 0; y < h; y++ {
		mag[y] = make([]float64, w)
		phase[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			mag[y][x] = cmplx.Abs(f[y][x])
			phase[y][x] = cmplx.Phase(f[y][x])
		}
	}
	return &Spectrum{Magnitude: mag, Phase: phase, Centered: center}
}

// Inverse rebuilds complex coefficients as magnitude*e^(i*phase), undoes
// the centering roll if one was applied, and returns the real part of the
// inverse DFT clamped to [0, 255]. Inverse(Forward(x)) reproduces x within
// one intensity level per pixel.
func Inverse(s *Spectrum) (*raster.Raster, error) {
	h, w, err := s.shape()
	if err != nil {
		return nil, err
	}
	f := make([][]complex128, h)
	for y := 0; y < h; y++ {
		f[y] = make([]complex128, w)
		for x := 0; x < w; x++ {
			f[y][x] = cmplx.Rect(s.Magnitude[y][x], s.Phase[y][x])
		}
	}
	if s.Centered {
		f = roll(f, -(h / 2), -(w / 2))
	}
	return raster.FromPlanes(raster.Gray, realPlane(fft.IFFT2(f))), nil
}

// VisualizeMagnitude renders the magnitude grid as an 8-bit image with the
// maximum mapped to 255. logScale compresses the dynamic range with
// log(1+m) first, which is what makes anything beyond the DC spike
// visible. An all-zero spectrum renders all black.
func (s *Spectrum) VisualizeMagnitude(logScale bool) (*raster.Raster, error) {
	h, w, err := gridShape(s.Magnitude, "magnitude")
	if err != nil {
		return nil, err
	}
	vis := make([][]float64, h)
	max := 0.0
	for y := 0; y < h; y++ {
		vis[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			v := s.Magnitude[y][x]
			if logScale {
				v = math.Log1p(v)
			}
			vis[y][x] = v
		}
		if m := floats.Max(vis[y]); m > max {
			max = m
		}
	}
	if max > 0 {
		for y := range vis {
			floats.Scale(255/max, vis[y])
		}
	}
	return raster.FromPlanes(raster.Gray, vis), nil
}

// VisualizePhase maps phase values linearly from (-pi, pi] onto [0, 255].
func (s *Spectrum) VisualizePhase() (*raster.Raster, error) {
	h, w, err := gridShape(s.Phase, "phase")
	if err != nil {
		return nil, err
	}
	vis := make([][]float64, h)
	for y := 0; y < h; y++ {
		vis[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			vis[y][x] = (s.Phase[y][x] + math.Pi) / (2 * math.Pi) * 255
		}
	}
	return raster.FromPlanes(raster.Gray, vis), nil
}

// shape validates that magnitude and phase are rectangular grids of equal
// dimensions and returns them.
func (s *Spectrum) shape() (h, w int, err error) {
	h, w, err = gridShape(s.Magnitude, "magnitude")
	if err != nil {
		return 0, 0, err
	}
	ph, pw, err := gridShape(s.Phase, "phase")
	if err != nil {
		return 0, 0, err
	}
	if ph != h || pw != w {
		return 0, 0, &raster.ShapeMismatchError{
			Want: fmt.Sprintf("%dx%d phase matching magnitude", h, w),
			Got:  fmt.Sprintf("%dx%d phase", ph, pw),
		}
	}
	return h, w, nil
}

// gridShape checks a grid is non-empty and rectangular.
func gridShape(g [][]float64, name string) (h, w int, err error) {
	if len(g) == 0 || len(g[0]) == 0 {
		return 0, 0, &raster.ShapeMismatchError{
			Want: "non-empty " + name + " grid",
			Got:  "empty grid",
		}
	}
	h, w = len(g), len(g[0])
	for y, row := range g {
		if len(row) != w {
			return 0, 0, &raster.ShapeMismatchError{
				Want: fmt.Sprintf("rectangular %dx%d %s grid", h, w, name),
				Got:  fmt.Sprintf("row %d of width %d", y, len(row)),
			}
		}
	}
	return h, w, nil
}

// roll cyclically shifts the grid down by dy rows and right by dx columns.
// Rolling by (rows/2, cols/2) centers the zero-frequency coefficient;
// rolling by the negated amounts undoes it exactly for even and odd sizes.
func roll(f [][]complex128, dy, dx int) [][]complex128 {
	h, w := len(f), len(f[0])
	out := make([][]complex128, h)
	for y := range out {
		out[y] = make([]complex128, w)
	}
	for y := 0; y < h; y++ {
		ty := ((y+dy)%h + h) % h
		for x := 0; x < w; x++ {
			out[ty][((x+dx)%w+w)%w] = f[y][x]
		}
	}
	return out
}

// realPlane extracts the real parts of an inverse transform result.
func realPlane(f [][]complex128) [][]float64 {
	out := make([][]float64, len(f))
	for y := range f {
		row := make([]float64, len(f[y]))
		for x := range f[y] {
			row[x] = real(f[y][x])
		}
		out[y] = row
	}
	return out
}
