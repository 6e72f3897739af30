package noise

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// Metrics summarizes how closely a processed raster matches a reference.
type Metrics struct {
	MSE  float64 `json:"mse"`
	PSNR float64 `json:"psnr"`
}

// Compare computes MSE and PSNR between two rasters of identical shape.
// The MSE is floored at 1e-10 inside the PSNR so identical images report
// a finite peak around 148 dB instead of infinity.
func Compare(a, b *raster.Raster) (Metrics, error) {
	if a.Width != b.Width || a.Height != b.Height || a.Order != b.Order {
		return Metrics{}, &raster.ShapeMismatchError{
			Want: fmt.Sprintf("%dx%d %s", a.Width, a.Height, a.Order),
			Got:  fmt.Sprintf("%dx%d %s", b.Width, b.Height, b.Order),
		}
	}
	af := make([]float64, len(a.Pix))
	bf := make([]float64, len(b.Pix))
	for i := range a.Pix {
		af[i] = float64(a.Pix[i])
		bf[i] = float64(b.Pix[i])
	}
	dist := floats.Distance(af, bf, 2)
	mse := dist * dist / float64(len(af))
	floored := mse
	if floored < 1e-10 {
		floored = 1e-10
	}
	return Metrics{
		MSE:  mse,
		PSNR: 10 * math.Log10(255*255/floored),
	}, nil
}
