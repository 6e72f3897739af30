package spatial

import (
	"encoding/json"
	"fmt"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// MaxKernel is the largest accepted kernel size.
const MaxKernel = 31

// Filter is one spatial operation together with its parameters. The set of
// implementations is closed: only the types in this package satisfy the
// interface, so dispatch is exhaustive by construction and an unknown
// operation can only appear at the Decode boundary.
type Filter interface {
	// Name returns the wire identifier of the operation.
	Name() string
	// Validate checks the parameter constraints without touching pixels.
	Validate() error

	apply(r *raster.Raster) (*raster.Raster, error)
}

// Apply runs one filter over a raster and returns the freshly allocated
// result. Parameters are validated first; the input is never modified.
func Apply(r *raster.Raster, f Filter) (*raster.Raster, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f.apply(r)
}

// Decode builds a Filter from its wire name and JSON parameters. Each
// operation starts from its documented defaults; the JSON overlays only the
// fields it names, so omitted parameters keep their defaults while explicit
// invalid values are caught by Validate.
func Decode(name string, params json.RawMessage) (Filter, error) {
	switch name {
	case "blur":
		f := Gaussian{Kernel: 5, Sigma: 1.0}
		return decoded(name, params, &f)
	case "box_blur":
		f := Box{Kernel: 5}
		return decoded(name, params, &f)
	case "median":
		f := Median{Kernel: 5}
		return decoded(name, params, &f)
	case "bilateral":
		f := Bilateral{Diameter: 9, SigmaColor: 75, SigmaSpace: 75}
		return decoded(name, params, &f)
	case "sharpen":
		f := Sharpen{Strength: 1.0}
		return decoded(name, params, &f)
	case "unsharp_mask":
		f := Unsharp{Sigma: 1.0, Strength: 1.5, Threshold: 0}
		return decoded(name, params, &f)
	case "edge_sobel":
		f := Sobel{KSize: 3}
		return decoded(name, params, &f)
	case "edge_laplacian":
		f := Laplacian{KSize: 3}
		return decoded(name, params, &f)
	case "edge_canny":
		f := Canny{Threshold1: 100, Threshold2: 200}
		return decoded(name, params, &f)
	case "emboss":
		f := Emboss{}
		return decoded(name, params, &f)
	case "high_pass":
		f := HighPass{Kernel: 3}
		return decoded(name, params, &f)
	case "low_pass":
		f := LowPass{Kernel: 5}
		return decoded(name, params, &f)
	case "custom":
		f := Custom{Kernel: [][]float64{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}}}
		return decoded(name, params, &f)
	default:
		return nil, &raster.UnsupportedOperationError{Kind: "filter", Name: name}
	}
}

// decoded overlays JSON parameters onto a default-filled spec.
func decoded(name string, params json.RawMessage, into Filter) (Filter, error) {
	if len(params) == 0 || string(params) == "null" {
		return into, nil
	}
	if err := json.Unmarshal(params, into); err != nil {
		return nil, fmt.Errorf("invalid %s parameters: %w", name, err)
	}
	return into, nil
}

// forceOdd bumps an even kernel size up to the next odd value.
func forceOdd(k int) int {
	if k%2 == 0 {
		return k + 1
	}
	return k
}

// validateKernel applies the shared kernel-size constraint.
func validateKernel(param string, k int) error {
	if k < 1 {
		return raster.InvalidParam(param, "must be positive, got %d", k)
	}
	if k > MaxKernel {
		return raster.InvalidParam(param, "must be at most %d, got %d", MaxKernel, k)
	}
	return nil
}

// Gaussian blurs with a sampled Gaussian kernel.
type Gaussian struct {
	Kernel int     `json:"kernel_size"`
	Sigma  float64 `json:"sigma"`
}

// Name implements Filter.
func (f *Gaussian) Name() string { return "blur" }

// Validate implements Filter.
func (f *Gaussian) Validate() error {
	if err := validateKernel("kernel_size", f.Kernel); err != nil {
		return err
	}
	if f.Sigma <= 0 {
		return raster.InvalidParam("sigma", "must be positive, got %v", f.Sigma)
	}
	return nil
}

func (f *Gaussian) apply(r *raster.Raster) (*raster.Raster, error) {
	k := forceOdd(f.Kernel)
	return mapPlanes(r, func(p [][]float64) [][]float64 {
		return gaussianBlurPlane(p, k, f.Sigma)
	}), nil
}

// Box blurs with a uniform mean kernel.
type Box struct {
	Kernel int `json:"kernel_size"`
}

// Name implements Filter.
func (f *Box) Name() string { return "box_blur" }

// Validate implements Filter.
func (f *Box) Validate() error { return validateKernel("kernel_size", f.Kernel) }

func (f *Box) apply(r *raster.Raster) (*raster.Raster, error) {
	k := forceOdd(f.Kernel)
	kernel := make([]float64, k)
	for i := range kernel {
		kernel[i] = 1 / float64(k)
	}
	return mapPlanes(r, func(p [][]float64) [][]float64 {
		return sepConvolve(p, kernel, kernel)
	}), nil
}

// Median replaces each pixel with the median of its window, removing
// impulse noise without smearing edges.
type Median struct {
	Kernel int `json:"kernel_size"`
}

// Name implements Filter.
func (f *Median) Name() string { return "median" }

// Validate implements Filter.
func (f *Median) Validate() error { return validateKernel("kernel_size", f.Kernel) }

func (f *Median) apply(r *raster.Raster) (*raster.Raster, error) {
	k := forceOdd(f.Kernel)
	return mapPlanes(r, func(p [][]float64) [][]float64 {
		return medianPlane(p, k)
	}), nil
}

// Bilateral smooths while preserving edges by weighting neighbors with
// both a spatial and an intensity-difference Gaussian.
type Bilateral struct {
	Diameter   int     `json:"d"`
	SigmaColor float64 `json:"sigma_color"`
	SigmaSpace float64 `json:"sigma_space"`
}

// Name implements Filter.
func (f *Bilateral) Name() string { return "bilateral" }

// Validate implements Filter.
func (f *Bilateral) Validate() error {
	if err := validateKernel("d", f.Diameter); err != nil {
		return err
	}
	if f.SigmaColor <= 0 {
		return raster.InvalidParam("sigma_color", "must be positive, got %v", f.SigmaColor)
	}
	if f.SigmaSpace <= 0 {
		return raster.InvalidParam("sigma_space", "must be positive, got %v", f.SigmaSpace)
	}
	return nil
}

func (f *Bilateral) apply(r *raster.Raster) (*raster.Raster, error) {
	return mapPlanes(r, func(p [][]float64) [][]float64 {
		return bilateralPlane(p, f.Diameter, f.SigmaColor, f.SigmaSpace)
	}), nil
}

// Sharpen amplifies the center pixel against its 4-neighborhood.
type Sharpen struct {
	Strength float64 `json:"strength"`
}

// Name implements Filter.
func (f *Sharpen) Name() string { return "sharpen" }

// Validate implements Filter.
func (f *Sharpen) Validate() error {
	if f.Strength <= 0 {
		return raster.InvalidParam("strength", "must be positive, got %v", f.Strength)
	}
	return nil
}

func (f *Sharpen) apply(r *raster.Raster) (*raster.Raster, error) {
	kernel := [][]float64{
		{0, -1, 0},
		{-1, 5 + f.Strength, -1},
		{0, -1, 0},
	}
	return mapPlanes(r, func(p [][]float64) [][]float64 {
		return convolvePlane(p, kernel)
	}), nil
}

// Unsharp sharpens by subtracting a Gaussian blur, keeping pixels whose
// local contrast falls below the threshold untouched.
type Unsharp struct {
	Sigma     float64 `json:"sigma"`
	Strength  float64 `json:"strength"`
	Threshold float64 `json:"threshold"`
}

// Name implements Filter.
func (f *Unsharp) Name() string { return "unsharp_mask" }

// Validate implements Filter.
func (f *Unsharp) Validate() error {
	if f.Sigma <= 0 {
		return raster.InvalidParam("sigma", "must be positive, got %v", f.Sigma)
	}
	if f.Strength <= 0 {
		return raster.InvalidParam("strength", "must be positive, got %v", f.Strength)
	}
	if f.Threshold < 0 {
		return raster.InvalidParam("threshold", "must be non-negative, got %v", f.Threshold)
	}
	return nil
}

func (f *Unsharp) apply(r *raster.Raster) (*raster.Raster, error) {
	k := kernelSizeForSigma(f.Sigma)
	return mapPlanes(r, func(p [][]float64) [][]float64 {
		blur := gaussianBlurPlane(p, k, f.Sigma)
		out := make([][]float64, len(p))
		for y := range p {
			row := make([]float64, len(p[y]))
			for x, v := range p[y] {
				diff := v - blur[y][x]
				if diff < 0 {
					diff = -diff
				}
				if diff < f.Threshold {
					row[x] = v
				} else {
					row[x] = (1+f.Strength)*v - f.Strength*blur[y][x]
				}
			}
			out[y] = row
		}
		return out
	}), nil
}

// Sobel computes the gradient magnitude on the grayscale image.
type Sobel struct {
	KSize int `json:"ksize"`
}

// Name implements Filter.
func (f *Sobel) Name() string { return "edge_sobel" }

// Validate implements Filter.
func (f *Sobel) Validate() error { return validateAperture("ksize", f.KSize) }

func (f *Sobel) apply(r *raster.Raster) (*raster.Raster, error) {
	return sobelMagnitude(r, f.KSize), nil
}

// Laplacian computes the absolute second-derivative response on the
// grayscale image.
type Laplacian struct {
	KSize int `json:"ksize"`
}

// Name implements Filter.
func (f *Laplacian) Name() string { return "edge_laplacian" }

// Validate implements Filter.
func (f *Laplacian) Validate() error { return validateAperture("ksize", f.KSize) }

func (f *Laplacian) apply(r *raster.Raster) (*raster.Raster, error) {
	return laplacianEdge(r, f.KSize), nil
}

// Canny runs the two-threshold hysteresis edge detector. The output is a
// binary mask holding only 0 and 255.
type Canny struct {
	Threshold1 float64 `json:"threshold1"`
	Threshold2 float64 `json:"threshold2"`
}

// Name implements Filter.
func (f *Canny) Name() string { return "edge_canny" }

// Validate implements Filter.
func (f *Canny) Validate() error {
	if f.Threshold1 < 0 {
		return raster.InvalidParam("threshold1", "must be non-negative, got %v", f.Threshold1)
	}
	if f.Threshold2 < 0 {
		return raster.InvalidParam("threshold2", "must be non-negative, got %v", f.Threshold2)
	}
	return nil
}

func (f *Canny) apply(r *raster.Raster) (*raster.Raster, error) {
	return cannyEdge(r, f.Threshold1, f.Threshold2), nil
}

// Emboss applies the fixed directional relief kernel.
type Emboss struct{}

// Name implements Filter.
func (f *Emboss) Name() string { return "emboss" }

// Validate implements Filter.
func (f *Emboss) Validate() error { return nil }

func (f *Emboss) apply(r *raster.Raster) (*raster.Raster, error) {
	kernel := [][]float64{
		{-2, -1, 0},
		{-1, 1, 1},
		{0, 1, 2},
	}
	return mapPlanes(r, func(p [][]float64) [][]float64 {
		return convolvePlane(p, kernel)
	}), nil
}

// HighPass boosts detail by adding the difference from a Gaussian blur
// back onto the image.
type HighPass struct {
	Kernel int `json:"kernel_size"`
}

// Name implements Filter.
func (f *HighPass) Name() string { return "high_pass" }

// Validate implements Filter.
func (f *HighPass) Validate() error { return validateKernel("kernel_size", f.Kernel) }

func (f *HighPass) apply(r *raster.Raster) (*raster.Raster, error) {
	k := forceOdd(f.Kernel)
	return mapPlanes(r, func(p [][]float64) [][]float64 {
		blur := gaussianBlurPlane(p, k, 0)
		out := make([][]float64, len(p))
		for y := range p {
			row := make([]float64, len(p[y]))
			for x, v := range p[y] {
				row[x] = v + (v - blur[y][x])
			}
			out[y] = row
		}
		return out
	}), nil
}

// LowPass is a Gaussian blur with the sigma derived from the kernel size.
type LowPass struct {
	Kernel int `json:"kernel_size"`
}

// Name implements Filter.
func (f *LowPass) Name() string { return "low_pass" }

// Validate implements Filter.
func (f *LowPass) Validate() error { return validateKernel("kernel_size", f.Kernel) }

func (f *LowPass) apply(r *raster.Raster) (*raster.Raster, error) {
	k := forceOdd(f.Kernel)
	return mapPlanes(r, func(p [][]float64) [][]float64 {
		return gaussianBlurPlane(p, k, 0)
	}), nil
}

// Custom correlates an arbitrary caller-supplied kernel. The identity
// kernel reproduces the input exactly.
type Custom struct {
	Kernel [][]float64 `json:"kernel"`
}

// Name implements Filter.
func (f *Custom) Name() string { return "custom" }

// Validate implements Filter.
func (f *Custom) Validate() error {
	if len(f.Kernel) == 0 || len(f.Kernel[0]) == 0 {
		return &raster.ShapeMismatchError{Want: "non-empty kernel", Got: "empty kernel"}
	}
	w := len(f.Kernel[0])
	for i, row := range f.Kernel {
		if len(row) != w {
			return &raster.ShapeMismatchError{
				Want: fmt.Sprintf("rectangular kernel with %d columns", w),
				Got:  fmt.Sprintf("row %d with %d columns", i, len(row)),
			}
		}
	}
	return nil
}

func (f *Custom) apply(r *raster.Raster) (*raster.Raster, error) {
	return mapPlanes(r, func(p [][]float64) [][]float64 {
		return convolvePlane(p, f.Kernel)
	}), nil
}

// validateAperture checks a derivative aperture size (1, 3, 5, or 7).
func validateAperture(param string, k int) error {
	switch k {
	case 1, 3, 5, 7:
		return nil
	}
	return raster.InvalidParam(param, "must be 1, 3, 5, or 7, got %d", k)
}
