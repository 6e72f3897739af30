package noise

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// Noise is one synthetic noise model together with its parameters. The set
// of implementations is closed, so an unknown model can only appear at the
// Decode boundary.
type Noise interface {
	// Name returns the wire identifier of the model.
	Name() string
	// Validate checks the parameter constraints without touching pixels.
	Validate() error

	apply(r *raster.Raster, rng *rand.Rand) *raster.Raster
}

// AddNoise corrupts r with the given model and returns the result. The
// caller supplies the randomness source, so a fixed seed reproduces the
// same corruption exactly.
func AddNoise(r *raster.Raster, n Noise, rng *rand.Rand) (*raster.Raster, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n.apply(r, rng), nil
}

// Decode builds a Noise from its wire name and JSON parameters, starting
// from the documented defaults and overlaying only the fields the JSON
// names.
func Decode(name string, params json.RawMessage) (Noise, error) {
	switch name {
	case "gaussian":
		n := Gaussian{Mean: 0, Std: 25}
		return decodedNoise(name, params, &n)
	case "salt_pepper":
		n := SaltPepper{Amount: 0.05, SaltRatio: 0.5}
		return decodedNoise(name, params, &n)
	case "poisson":
		n := Poisson{Scale: 1.0}
		return decodedNoise(name, params, &n)
	case "speckle":
		n := Speckle{Std: 0.1}
		return decodedNoise(name, params, &n)
	case "uniform":
		n := Uniform{Low: -50, High: 50}
		return decodedNoise(name, params, &n)
	default:
		return nil, &raster.UnsupportedOperationError{Kind: "noise", Name: name}
	}
}

func decodedNoise(name string, params json.RawMessage, into Noise) (Noise, error) {
	if len(params) == 0 || string(params) == "null" {
		return into, nil
	}
	if err := json.Unmarshal(params, into); err != nil {
		return nil, fmt.Errorf("invalid %s parameters: %w", name, err)
	}
	return into, nil
}

// Gaussian adds independent normal noise to every sample.
type Gaussian struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Name implements Noise.
func (n *Gaussian) Name() string { return "gaussian" }

// Validate implements Noise.
func (n *Gaussian) Validate() error {
	if n.Std <= 0 {
		return raster.InvalidParam("std", "must be positive, got %v", n.Std)
	}
	return nil
}

func (n *Gaussian) apply(r *raster.Raster, rng *rand.Rand) *raster.Raster {
	out := r.Clone()
	for i, v := range r.Pix {
		out.Pix[i] = raster.ClampU8(float64(v) + n.Mean + n.Std*rng.NormFloat64())
	}
	return out
}

// SaltPepper forces a fraction of pixel positions to full white or full
// black. Positions are drawn with replacement, so duplicates are possible
// and the realized fraction can land slightly under the requested amount.
// For color images a hit covers all channels of the pixel.
type SaltPepper struct {
	Amount    float64 `json:"amount"`
	SaltRatio float64 `json:"salt_ratio"`
}

// Name implements Noise.
func (n *SaltPepper) Name() string { return "salt_pepper" }

// Validate implements Noise.
func (n *SaltPepper) Validate() error {
	if n.Amount < 0 || n.Amount > 1 {
		return raster.InvalidParam("amount", "must be in [0, 1], got %v", n.Amount)
	}
	if n.SaltRatio < 0 || n.SaltRatio > 1 {
		return raster.InvalidParam("salt_ratio", "must be in [0, 1], got %v", n.SaltRatio)
	}
	return nil
}

func (n *SaltPepper) apply(r *raster.Raster, rng *rand.Rand) *raster.Raster {
	out := r.Clone()
	ch := r.Channels()
	total := float64(len(r.Pix))

	stain := func(count int, value uint8) {
		for i := 0; i < count; i++ {
			x, y := rng.Intn(r.Width), rng.Intn(r.Height)
			for c := 0; c < ch; c++ {
				out.Set(x, y, c, value)
			}
		}
	}
	stain(int(total*n.Amount*n.SaltRatio), 255)
	stain(int(total*n.Amount*(1-n.SaltRatio)), 0)
	return out
}

// Poisson replaces every sample with a Poisson draw at rate sample*scale,
// scaled back down. Brighter pixels receive proportionally more shot noise.
type Poisson struct {
	Scale float64 `json:"scale"`
}

// Name implements Noise.
func (n *Poisson) Name() string { return "poisson" }

// Validate implements Noise.
func (n *Poisson) Validate() error {
	if n.Scale <= 0 {
		return raster.InvalidParam("scale", "must be positive, got %v", n.Scale)
	}
	return nil
}

// maxExactPoisson bounds the rates sampled by CDF inversion; beyond it the
// term exp(-lambda) underflows and the normal approximation takes over.
const maxExactPoisson = 500

func (n *Poisson) apply(r *raster.Raster, rng *rand.Rand) *raster.Raster {
	// Rates repeat: there are only 256 distinct sample values, so each
	// CDF is built once and shared.
	cdfs := make([][]float64, 256)
	out := r.Clone()
	for i, v := range r.Pix {
		lambda := float64(v) * n.Scale
		var k float64
		if lambda > maxExactPoisson {
			k = math.Round(lambda + math.Sqrt(lambda)*rng.NormFloat64())
			if k < 0 {
				k = 0
			}
		} else {
			cdf := cdfs[v]
			if cdf == nil {
				cdf = poissonCDF(lambda)
				cdfs[v] = cdf
			}
			k = float64(sort.SearchFloat64s(cdf, rng.Float64()))
		}
		out.Pix[i] = raster.ClampU8(k / n.Scale)
	}
	return out
}

// poissonCDF accumulates P(X <= k) until the remaining tail mass is
// negligible, for inverse-CDF sampling via binary search.
func poissonCDF(lambda float64) []float64 {
	if lambda == 0 {
		return []float64{1}
	}
	p := math.Exp(-lambda)
	sum := p
	cdf := []float64{sum}
	for k := 1; sum < 1-1e-12 && k < int(lambda)+1000; k++ {
		p *= lambda / float64(k)
		sum += p
		cdf = append(cdf, sum)
	}
	return cdf
}

// Speckle applies multiplicative noise: sample*(1 + N(0, std)).
type Speckle struct {
	Std float64 `json:"std"`
}

// Name implements Noise.
func (n *Speckle) Name() string { return "speckle" }

// Validate implements Noise.
func (n *Speckle) Validate() error {
	if n.Std <= 0 {
		return raster.InvalidParam("std", "must be positive, got %v", n.Std)
	}
	return nil
}

func (n *Speckle) apply(r *raster.Raster, rng *rand.Rand) *raster.Raster {
	out := r.Clone()
	for i, v := range r.Pix {
		out.Pix[i] = raster.ClampU8(float64(v) * (1 + n.Std*rng.NormFloat64()))
	}
	return out
}

// Uniform adds noise drawn uniformly from [low, high) to every sample.
type Uniform struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Name implements Noise.
func (n *Uniform) Name() string { return "uniform" }

// Validate implements Noise.
func (n *Uniform) Validate() error {
	if n.High < n.Low {
		return raster.InvalidParam("high", "must be at least low (%v), got %v", n.Low, n.High)
	}
	return nil
}

func (n *Uniform) apply(r *raster.Raster, rng *rand.Rand) *raster.Raster {
	out := r.Clone()
	span := n.High - n.Low
	for i, v := range r.Pix {
		out.Pix[i] = raster.ClampU8(float64(v) + n.Low + span*rng.Float64())
	}
	return out
}
