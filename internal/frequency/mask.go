package frequency

import (
	"fmt"
	"math"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// epsilon guards the Butterworth ratio forms against division by zero at
// the spectrum center.
const epsilon = 1e-10

// Band selects which frequency range a mask passes.
type Band int

const (
	Lowpass Band = iota
	Highpass
	Bandpass
	Bandstop
)

// String returns the wire name of the band.
func (b Band) String() string {
	switch b {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	case Bandstop:
		return "bandstop"
	}
	return fmt.Sprintf("band(%d)", int(b))
}

// ParseBand maps a wire name onto its Band.
func ParseBand(name string) (Band, error) {
	switch name {
	case "lowpass":
		return Lowpass, nil
	case "highpass":
		return Highpass, nil
	case "bandpass":
		return Bandpass, nil
	case "bandstop":
		return Bandstop, nil
	}
	return 0, &raster.UnsupportedOperationError{Kind: "frequency band", Name: name}
}

// Mask is one parametric frequency-filter profile. The set of
// implementations is closed; every profile is radial, so the gain at a
// coefficient depends only on its normalized distance from the spectrum
// center. Every gain lies in [0, 1].
type Mask interface {
	// Method returns the wire identifier of the profile family.
	Method() string
	// Validate checks the parameter constraints without building a grid.
	Validate() error

	gain(d float64) float64
}

// DecodeMask builds a Mask from its wire method and band names. Unknown
// names are rejected; parameter range errors are left to Validate.
func DecodeMask(method, band string, cutoff, cutoffHigh float64, order int) (Mask, error) {
	b, err := ParseBand(band)
	if err != nil {
		return nil, err
	}
	switch method {
	case "ideal":
		return &Ideal{Band: b, Cutoff: cutoff, CutoffHigh: cutoffHigh}, nil
	case "gaussian":
		return &Gaussian{Band: b, Cutoff: cutoff, CutoffHigh: cutoffHigh}, nil
	case "butterworth":
		return &Butterworth{Band: b, Cutoff: cutoff, CutoffHigh: cutoffHigh, Order: order}, nil
	default:
		return nil, &raster.UnsupportedOperationError{Kind: "frequency filter method", Name: method}
	}
}

// BuildMask samples the profile over a rows x cols centered grid. Distances
// are normalized by the half-diagonal sqrt(crow^2+ccol^2), so a cutoff of 1
// reaches the image corners.
func BuildMask(m Mask, rows, cols int) [][]float64 {
	crow, ccol := rows/2, cols/2
	dmax := math.Sqrt(float64(crow*crow + ccol*ccol))
	if dmax == 0 {
		dmax = 1
	}
	out := make([][]float64, rows)
	for u := 0; u < rows; u++ {
		row := make([]float64, cols)
		du := float64(u - crow)
		for v := 0; v < cols; v++ {
			dv := float64(v - ccol)
			row[v] = m.gain(math.Sqrt(du*du+dv*dv) / dmax)
		}
		out[u] = row
	}
	return out
}

// validateCutoffs applies the shared cutoff constraints.
func validateCutoffs(cutoff, cutoffHigh float64) error {
	if cutoff < 0 || cutoff > 1 {
		return raster.InvalidParam("cutoff", "must be in [0, 1], got %v", cutoff)
	}
	if cutoffHigh <= cutoff {
		return raster.InvalidParam("cutoff_high", "must be greater than cutoff, got %v", cutoffHigh)
	}
	return nil
}

// boolGain converts a pass decision into a hard 0/1 gain.
func boolGain(pass bool) float64 {
	if pass {
		return 1
	}
	return 0
}

// Ideal is the hard-threshold profile.
type Ideal struct {
	Band       Band
	Cutoff     float64
	CutoffHigh float64
}

// Method implements Mask.
func (m *Ideal) Method() string { return "ideal" }

// Validate implements Mask.
func (m *Ideal) Validate() error { return validateCutoffs(m.Cutoff, m.CutoffHigh) }

func (m *Ideal) gain(d float64) float64 {
	switch m.Band {
	case Lowpass:
		return boolGain(d <= m.Cutoff)
	case Highpass:
		return boolGain(d > m.Cutoff)
	case Bandpass:
		return boolGain(d >= m.Cutoff && d <= m.CutoffHigh)
	default:
		return boolGain(d < m.Cutoff || d > m.CutoffHigh)
	}
}

// Gaussian is the smooth exp(-d^2/2c^2) profile.
type Gaussian struct {
	Band       Band
	Cutoff     float64
	CutoffHigh float64
}

// Method implements Mask.
func (m *Gaussian) Method() string { return "gaussian" }

// Validate implements Mask.
func (m *Gaussian) Validate() error { return validateCutoffs(m.Cutoff, m.CutoffHigh) }

func (m *Gaussian) gain(d float64) float64 {
	switch m.Band {
	case Lowpass:
		return gaussianLowpass(d, m.Cutoff)
	case Highpass:
		return 1 - gaussianLowpass(d, m.Cutoff)
	case Bandpass:
		return gaussianLowpass(d, m.CutoffHigh) * (1 - gaussianLowpass(d, m.Cutoff))
	default:
		return 1 - gaussianLowpass(d, m.CutoffHigh)*(1-gaussianLowpass(d, m.Cutoff))
	}
}

// gaussianLowpass collapses to the DC-only limit at zero cutoff instead of
// dividing by zero.
func gaussianLowpass(d, cutoff float64) float64 {
	if cutoff == 0 {
		return boolGain(d == 0)
	}
	return math.Exp(-d * d / (2 * cutoff * cutoff))
}

// Butterworth is the ratio-form profile whose order sets the transition
// sharpness between pass and stop bands.
type Butterworth struct {
	Band       Band
	Cutoff     float64
	CutoffHigh float64
	Order      int
}

// Method implements Mask.
func (m *Butterworth) Method() string { return "butterworth" }

// Validate implements Mask.
func (m *Butterworth) Validate() error {
	if err := validateCutoffs(m.Cutoff, m.CutoffHigh); err != nil {
		return err
	}
	if m.Order < 1 {
		return raster.InvalidParam("filter_order", "must be a positive integer, got %d", m.Order)
	}
	return nil
}

func (m *Butterworth) gain(d float64) float64 {
	n := 2 * float64(m.Order)
	switch m.Band {
	case Lowpass:
		return 1 / (1 + math.Pow(d/(m.Cutoff+epsilon), n))
	case Highpass:
		return 1 / (1 + math.Pow((m.Cutoff+epsilon)/(d+epsilon), n))
	case Bandpass:
		return m.bandGain(d, n)
	default:
		return 1 - m.bandGain(d, n)
	}
}

// bandGain is the shared band ratio built from the bandwidth and the band
// center. The even exponent keeps the gain non-negative on both sides of
// the center.
func (m *Butterworth) bandGain(d, n float64) float64 {
	width := m.CutoffHigh - m.Cutoff
	center := (m.Cutoff + m.CutoffHigh) / 2
	return 1 / (1 + math.Pow(d*width/(d*d-center*center+epsilon), n))
}
