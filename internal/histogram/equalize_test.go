package histogram

import (
	"errors"
	"testing"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

func TestEqualizeGlobalGrayRemap(t *testing.T) {
	// Four pixels with values 0, 0, 128, 255. The CDF remap sends
	// 0 -> round(255*2/4) = 128, 128 -> round(255*3/4) = 191, 255 -> 255.
	r := raster.New(2, 2, raster.Gray)
	r.Pix = []uint8{0, 0, 128, 255}

	out := EqualizeGlobal(r)

	want := []uint8{128, 128, 191, 255}
	for i, w := range want {
		if out.Pix[i] != w {
			t.Errorf("pixel %d = %d, want %d", i, out.Pix[i], w)
		}
	}
}

func TestEqualizeGlobalExpandsRange(t *testing.T) {
	// A low-contrast ramp confined to [100, 131] should spread out.
	r := makeGray(32, 32, func(x, y int) uint8 { return uint8(100 + x) })

	out := EqualizeGlobal(r)

	lo, hi := uint8(255), uint8(0)
	for _, v := range out.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi != 255 {
		t.Errorf("equalized max = %d, want 255", hi)
	}
	if hi-lo <= 31 {
		t.Errorf("equalized range %d is not wider than the input range 31", hi-lo)
	}
}

func TestEqualizeGlobalSecondPassStable(t *testing.T) {
	r := makeGray(64, 64, func(x, y int) uint8 { return uint8((x + y) * 2) })

	once := EqualizeGlobal(r)
	twice := EqualizeGlobal(once)

	for i := range once.Pix {
		diff := int(once.Pix[i]) - int(twice.Pix[i])
		if diff < 0 {
			diff = -diff
		}
		if diff > 2 {
			t.Fatalf("pixel %d moved by %d on the second pass", i, diff)
		}
	}
}

func TestEqualizeGlobalPreservesNeutralColor(t *testing.T) {
	// Equal channels mean zero chroma, so equalizing luma must keep the
	// channels exactly equal.
	r := makeBGR(16, 16, func(x, y int) (uint8, uint8, uint8) {
		v := uint8(60 + x*2)
		return v, v, v
	})

	out := EqualizeGlobal(r)

	if out.Order != raster.BGR {
		t.Fatalf("layout changed to %v", out.Order)
	}
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			b, g, rd := out.At(x, y, 0), out.At(x, y, 1), out.At(x, y, 2)
			if b != g || g != rd {
				t.Fatalf("pixel (%d,%d) drifted off neutral: [%d %d %d]", x, y, b, g, rd)
			}
		}
	}
}

func TestEqualizeCLAHEConstantStaysFlat(t *testing.T) {
	r := makeGray(64, 64, func(x, y int) uint8 { return 128 })

	out, err := EqualizeCLAHE(r, DefaultClipLimit, DefaultTileGrid, DefaultTileGrid)
	if err != nil {
		t.Fatalf("EqualizeCLAHE failed: %v", err)
	}

	first := out.Pix[0]
	for i, v := range out.Pix {
		if v != first {
			t.Fatalf("pixel %d = %d differs from %d; constant input should stay flat", i, v, first)
		}
	}
}

func TestEqualizeCLAHEShapeAndContrast(t *testing.T) {
	r := makeGray(64, 64, func(x, y int) uint8 { return uint8(96 + (x+y)%32) })

	out, err := EqualizeCLAHE(r, DefaultClipLimit, DefaultTileGrid, DefaultTileGrid)
	if err != nil {
		t.Fatalf("EqualizeCLAHE failed: %v", err)
	}
	if out.Width != 64 || out.Height != 64 || out.Order != raster.Gray {
		t.Fatalf("shape changed: %dx%d %v", out.Width, out.Height, out.Order)
	}

	lo, hi := uint8(255), uint8(0)
	for _, v := range out.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi-lo <= 31 {
		t.Errorf("CLAHE output range %d is not wider than the input range 31", hi-lo)
	}
}

func TestEqualizeCLAHEColorPreservesShape(t *testing.T) {
	r := makeBGR(32, 32, func(x, y int) (uint8, uint8, uint8) {
		return uint8(x * 4), uint8(y * 4), uint8((x + y) * 2)
	})

	out, err := EqualizeCLAHE(r, 2.0, 4, 4)
	if err != nil {
		t.Fatalf("EqualizeCLAHE failed: %v", err)
	}
	if out.Order != raster.BGR || out.Width != 32 || out.Height != 32 {
		t.Fatalf("shape changed: %dx%d %v", out.Width, out.Height, out.Order)
	}
}

func TestEqualizeCLAHEValidation(t *testing.T) {
	r := makeGray(16, 16, func(x, y int) uint8 { return uint8(x) })

	tests := []struct {
		name      string
		clipLimit float64
		rows      int
		cols      int
	}{
		{"zero clip limit", 0, 8, 8},
		{"negative clip limit", -1, 8, 8},
		{"zero tiles", 2, 0, 8},
		{"grid larger than image", 2, 32, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EqualizeCLAHE(r, tt.clipLimit, tt.rows, tt.cols)
			if err == nil {
				t.Fatal("expected an error")
			}
			var perr *raster.InvalidParameterError
			if !errors.As(err, &perr) {
				t.Fatalf("expected InvalidParameterError, got %T", err)
			}
		})
	}
}

func TestClipHistogramConserves(t *testing.T) {
	counts := make([]int, Bins)
	counts[100] = 1000
	counts[200] = 24

	clipHistogram(counts, 2.0, 1024)

	sum := 0
	for _, n := range counts {
		sum += n
	}
	if sum != 1024 {
		t.Errorf("clipped histogram sums to %d, want 1024", sum)
	}
	limit := int(2.0 * 1024 / Bins)
	if counts[100] > limit+1024/Bins+1 {
		t.Errorf("bin 100 still holds %d after clipping at %d", counts[100], limit)
	}
}
