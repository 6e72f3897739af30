package noise

import (
	"encoding/json"
	"fmt"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
	"github.com/GoldenBoy13420/Pixalyze/internal/spatial"
)

// Denoiser is one noise-removal method together with its parameters. Like
// Noise, the implementation set is closed and unknown methods surface only
// at DecodeDenoiser.
type Denoiser interface {
	// Name returns the wire identifier of the method.
	Name() string
	// Validate checks the parameter constraints without touching pixels.
	Validate() error

	apply(r *raster.Raster) (*raster.Raster, error)
}

// Denoise runs the given method over r and returns the cleaned raster.
func Denoise(r *raster.Raster, d Denoiser) (*raster.Raster, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d.apply(r)
}

// DecodeDenoiser builds a Denoiser from its wire name and JSON parameters,
// starting from the documented defaults and overlaying only the fields the
// JSON names.
func DecodeDenoiser(name string, params json.RawMessage) (Denoiser, error) {
	switch name {
	case "gaussian":
		d := GaussianBlur{spatial.Gaussian{Kernel: 5, Sigma: 1.0}}
		return decodedDenoiser(name, params, &d)
	case "median":
		d := MedianBlur{spatial.Median{Kernel: 5}}
		return decodedDenoiser(name, params, &d)
	case "bilateral":
		d := BilateralBlur{spatial.Bilateral{Diameter: 9, SigmaColor: 75, SigmaSpace: 75}}
		return decodedDenoiser(name, params, &d)
	case "nlm":
		d := NLM{H: 10, TemplateWindow: 7, SearchWindow: 21}
		return decodedDenoiser(name, params, &d)
	case "morphological":
		d := Morphological{Kernel: 5, Operation: MorphOpening}
		return decodedDenoiser(name, params, &d)
	case "wiener":
		d := Wiener{}
		return decodedDenoiser(name, params, &d)
	default:
		return nil, &raster.UnsupportedOperationError{Kind: "denoise method", Name: name}
	}
}

func decodedDenoiser(name string, params json.RawMessage, into Denoiser) (Denoiser, error) {
	if len(params) == 0 || string(params) == "null" {
		return into, nil
	}
	if err := json.Unmarshal(params, into); err != nil {
		return nil, fmt.Errorf("invalid %s parameters: %w", name, err)
	}
	return into, nil
}

// GaussianBlur denoises with the spatial Gaussian blur.
type GaussianBlur struct {
	spatial.Gaussian
}

// Name implements Denoiser.
func (d *GaussianBlur) Name() string { return "gaussian" }

// Validate implements Denoiser.
func (d *GaussianBlur) Validate() error { return d.Gaussian.Validate() }

func (d *GaussianBlur) apply(r *raster.Raster) (*raster.Raster, error) {
	return spatial.Apply(r, &d.Gaussian)
}

// MedianBlur denoises with the spatial median filter.
type MedianBlur struct {
	spatial.Median
}

// Name implements Denoiser.
func (d *MedianBlur) Name() string { return "median" }

// Validate implements Denoiser.
func (d *MedianBlur) Validate() error { return d.Median.Validate() }

func (d *MedianBlur) apply(r *raster.Raster) (*raster.Raster, error) {
	return spatial.Apply(r, &d.Median)
}

// BilateralBlur denoises with the spatial bilateral filter.
type BilateralBlur struct {
	spatial.Bilateral
}

// Name implements Denoiser.
func (d *BilateralBlur) Name() string { return "bilateral" }

// Validate implements Denoiser.
func (d *BilateralBlur) Validate() error { return d.Bilateral.Validate() }

func (d *BilateralBlur) apply(r *raster.Raster) (*raster.Raster, error) {
	return spatial.Apply(r, &d.Bilateral)
}

// NLM is non-local means: each pixel becomes a weighted average of pixels
// in a surrounding search window, weighted by how similar their template
// patches are. Color images are processed per channel.
type NLM struct {
	H              float64 `json:"h"`
	TemplateWindow int     `json:"template_window_size"`
	SearchWindow   int     `json:"search_window_size"`
}

// Name implements Denoiser.
func (d *NLM) Name() string { return "nlm" }

// Validate implements Denoiser.
func (d *NLM) Validate() error {
	if d.H <= 0 {
		return raster.InvalidParam("h", "must be positive, got %v", d.H)
	}
	if d.TemplateWindow < 1 {
		return raster.InvalidParam("template_window_size", "must be at least 1, got %d", d.TemplateWindow)
	}
	if d.SearchWindow < 1 {
		return raster.InvalidParam("search_window_size", "must be at least 1, got %d", d.SearchWindow)
	}
	return nil
}

func (d *NLM) apply(r *raster.Raster) (*raster.Raster, error) {
	tmpl := oddify(d.TemplateWindow)
	search := oddify(d.SearchWindow)
	return eachPlane(r, func(p [][]float64) [][]float64 {
		return nlmPlane(p, d.H, tmpl, search)
	}), nil
}

// MorphOp selects the morphological composition applied by Morphological.
type MorphOp string

// Morphological operations.
const (
	MorphOpening MorphOp = "opening"
	MorphClosing MorphOp = "closing"
	MorphBoth    MorphOp = "both"
)

// Morphological denoises with grayscale morphology over an elliptical
// structuring element. Opening removes bright specks, closing removes dark
// ones, and both runs the two in sequence.
type Morphological struct {
	Kernel    int     `json:"kernel_size"`
	Operation MorphOp `json:"operation"`
}

// Name implements Denoiser.
func (d *Morphological) Name() string { return "morphological" }

// Validate implements Denoiser.
func (d *Morphological) Validate() error {
	if d.Kernel < 1 || d.Kernel > 31 {
		return raster.InvalidParam("kernel_size", "must be between 1 and 31, got %d", d.Kernel)
	}
	switch d.Operation {
	case MorphOpening, MorphClosing, MorphBoth:
		return nil
	}
	return raster.InvalidParam("operation", "must be opening, closing or both, got %q", d.Operation)
}

func (d *Morphological) apply(r *raster.Raster) (*raster.Raster, error) {
	elem := ellipticalElement(oddify(d.Kernel))
	return eachPlane(r, func(p [][]float64) [][]float64 {
		switch d.Operation {
		case MorphOpening:
			return opening(p, elem)
		case MorphClosing:
			return closing(p, elem)
		default:
			return closing(opening(p, elem), elem)
		}
	}), nil
}

// Wiener denoises with an adaptive local Wiener filter over a 3x3
// neighborhood. When NoiseVariance is unset each channel estimates its own
// noise floor from the median absolute Laplacian response.
type Wiener struct {
	NoiseVariance *float64 `json:"noise_variance"`
}

// Name implements Denoiser.
func (d *Wiener) Name() string { return "wiener" }

// Validate implements Denoiser.
func (d *Wiener) Validate() error {
	if d.NoiseVariance != nil && *d.NoiseVariance < 0 {
		return raster.InvalidParam("noise_variance", "must not be negative, got %v", *d.NoiseVariance)
	}
	return nil
}

func (d *Wiener) apply(r *raster.Raster) (*raster.Raster, error) {
	return eachPlane(r, func(p [][]float64) [][]float64 {
		nv := 0.0
		if d.NoiseVariance != nil {
			nv = *d.NoiseVariance
		} else {
			sigma := madSigma(p)
			nv = sigma * sigma
		}
		return wienerPlane(p, nv)
	}), nil
}

// eachPlane runs fn over every channel plane of r and reassembles the
// result in the same channel order.
func eachPlane(r *raster.Raster, fn func([][]float64) [][]float64) *raster.Raster {
	planes := make([][][]float64, r.Channels())
	for c := range planes {
		planes[c] = fn(r.Plane(c))
	}
	return raster.FromPlanes(r.Order, planes...)
}

// oddify bumps even sizes up by one; window sizes need a center sample.
func oddify(k int) int {
	if k%2 == 0 {
		return k + 1
	}
	return k
}
