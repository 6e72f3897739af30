package frequency

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// Filter multiplies the centered spectrum of the grayscale rendering of r
// by the mask and transforms back. The sampled mask grid is returned
// alongside the filtered raster for visualization.
func Filter(r *raster.Raster, m Mask) (*raster.Raster, [][]float64, error) {
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}
	f := fft.FFT2Real(r.Grayscale().Plane(0))
	h, w := len(f), len(f[0])

	f = roll(f, h/2, w/2)
	mask := BuildMask(m, h, w)
	for u := 0; u < h; u++ {
		for v := 0; v < w; v++ {
			f[u][v] *= complex(mask[u][v], 0)
		}
	}
	f = roll(f, -(h / 2), -(w / 2))

	out := raster.FromPlanes(raster.Gray, realPlane(fft.IFFT2(f)))
	return out, mask, nil
}

// Homomorphic is the log-domain illumination filter: gains below one at
// low frequencies compress illumination while gains above one at high
// frequencies boost reflectance detail. Cutoff is measured in raw pixel
// distance from the spectrum center, not the normalized [0, 1] scale of
// the band masks; callers porting settings between the two will get very
// different results if they confuse the units.
type Homomorphic struct {
	GammaLow  float64 `json:"gamma_low"`
	GammaHigh float64 `json:"gamma_high"`
	Cutoff    float64 `json:"cutoff"`
	Sharpness float64 `json:"c"`
}

// DefaultHomomorphic returns the conventional illumination-correction
// setting.
func DefaultHomomorphic() Homomorphic {
	return Homomorphic{GammaLow: 0.3, GammaHigh: 1.5, Cutoff: 30, Sharpness: 1}
}

// Validate checks the parameter constraints.
func (f *Homomorphic) Validate() error {
	if f.Cutoff <= 0 {
		return raster.InvalidParam("cutoff", "must be positive, got %v", f.Cutoff)
	}
	return nil
}

// Apply runs the filter over the grayscale rendering of r: log(1+v),
// centered DFT, radial gain, inverse DFT, exp(x)-1 back to intensities.
func (f *Homomorphic) Apply(r *raster.Raster) (*raster.Raster, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	p := r.Grayscale().Plane(0)
	h, w := len(p), len(p[0])
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p[y][x] = math.Log1p(p[y][x])
		}
	}

	fr := fft.FFT2Real(p)
	fr = roll(fr, h/2, w/2)
	crow, ccol := h/2, w/2
	for u := 0; u < h; u++ {
		du := float64(u - crow)
		for v := 0; v < w; v++ {
			dv := float64(v - ccol)
			d2 := du*du + dv*dv
			gain := (f.GammaHigh-f.GammaLow)*(1-math.Exp(-f.Sharpness*d2/(f.Cutoff*f.Cutoff))) + f.GammaLow
			fr[u][v] *= complex(gain, 0)
		}
	}
	fr = roll(fr, -(h / 2), -(w / 2))

	plane := realPlane(fft.IFFT2(fr))
	for y := range plane {
		for x := range plane[y] {
			plane[y][x] = math.Expm1(plane[y][x])
		}
	}
	return raster.FromPlanes(raster.Gray, plane), nil
}
