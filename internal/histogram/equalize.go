package histogram

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// Default CLAHE parameters.
const (
	DefaultClipLimit = 2.0
	DefaultTileGrid  = 8
)

// EqualizeGlobal performs global histogram equalization. Gray images are
// equalized directly. Color images are converted to YCrCb, the luma channel
// is equalized, and the chroma channels are preserved, so hue does not
// drift.
//
// The remap is the cumulative-distribution form
//
//	new(v) = round(255 * cdf(v) / totalPixels)
//
// computed from the exact histogram.
func EqualizeGlobal(r *raster.Raster) *raster.Raster {
	if r.Order == raster.Gray {
		out := raster.New(r.Width, r.Height, raster.Gray)
		lut := equalizeLUT(countPlane(r.Pix), len(r.Pix))
		for i, v := range r.Pix {
			out.Pix[i] = lut[v]
		}
		return out
	}

	y, cr, cb := bgrToYCrCb(r)
	lut := equalizeLUT(countPlane(y), len(y))
	for i, v := range y {
		y[i] = lut[v]
	}
	return ycrcbToBGR(y, cr, cb, r.Width, r.Height)
}

// EqualizeCLAHE performs contrast-limited adaptive histogram equalization.
// The luma plane is split into a tileRows x tileCols grid, each tile's
// histogram is clipped at clipLimit times the uniform bin level with the
// excess redistributed evenly, tiles are equalized independently, and
// per-pixel results are bilinearly interpolated between neighboring tile
// mappings to avoid blocking artifacts.
//
// Color images equalize the L channel of CIE Lab, preserving a and b.
func EqualizeCLAHE(r *raster.Raster, clipLimit float64, tileRows, tileCols int) (*raster.Raster, error) {
	if clipLimit <= 0 {
		return nil, raster.InvalidParam("clip_limit", "must be positive, got %v", clipLimit)
	}
	if tileRows < 1 || tileCols < 1 {
		return nil, raster.InvalidParam("tile_size", "tile grid must be at least 1x1, got %dx%d", tileRows, tileCols)
	}
	if tileRows > r.Height || tileCols > r.Width {
		return nil, raster.InvalidParam("tile_size", "tile grid %dx%d exceeds image size %dx%d",
			tileRows, tileCols, r.Width, r.Height)
	}

	if r.Order == raster.Gray {
		out := raster.New(r.Width, r.Height, raster.Gray)
		copy(out.Pix, clahePlane(r.Pix, r.Width, r.Height, clipLimit, tileRows, tileCols))
		return out, nil
	}

	l, a, b := bgrToLab(r)
	eq := clahePlane(l, r.Width, r.Height, clipLimit, tileRows, tileCols)
	return labToBGR(eq, a, b, r.Width, r.Height), nil
}

// countPlane histograms a single uint8 plane.
func countPlane(p []uint8) []int {
	counts := make([]int, Bins)
	for _, v := range p {
		counts[v]++
	}
	return counts
}

// equalizeLUT builds the CDF remap table for one histogram.
func equalizeLUT(counts []int, total int) [Bins]uint8 {
	var lut [Bins]uint8
	if total == 0 {
		for v := range lut {
			lut[v] = uint8(v)
		}
		return lut
	}
	cdf := 0
	for v, n := range counts {
		cdf += n
		lut[v] = raster.ClampU8(255 * float64(cdf) / float64(total))
	}
	return lut
}

// clahePlane equalizes one uint8 plane with clipped tile histograms and
// bilinear interpolation between tile mappings.
func clahePlane(p []uint8, w, h int, clipLimit float64, tileRows, tileCols int) []uint8 {
	// Tile boundaries split the image as evenly as integer division allows.
	xBound := make([]int, tileCols+1)
	for tc := 0; tc <= tileCols; tc++ {
		xBound[tc] = tc * w / tileCols
	}
	yBound := make([]int, tileRows+1)
	for tr := 0; tr <= tileRows; tr++ {
		yBound[tr] = tr * h / tileRows
	}

	luts := make([][][Bins]uint8, tileRows)
	for tr := 0; tr < tileRows; tr++ {
		luts[tr] = make([][Bins]uint8, tileCols)
		for tc := 0; tc < tileCols; tc++ {
			counts := make([]int, Bins)
			area := 0
			for y := yBound[tr]; y < yBound[tr+1]; y++ {
				for x := xBound[tc]; x < xBound[tc+1]; x++ {
					counts[p[y*w+x]]++
					area++
				}
			}
			clipHistogram(counts, clipLimit, area)
			luts[tr][tc] = equalizeLUT(counts, area)
		}
	}

	// Per-axis interpolation tables: for each coordinate, the two
	// neighboring tiles (by center) and the blend weight toward the right
	// or lower one.
	lxi, rxi, wx := axisBlend(w, xBound)
	lyi, ryi, wy := axisBlend(h, yBound)

	out := make([]uint8, len(p))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := p[y*w+x]
			nw := float64(luts[lyi[y]][lxi[x]][v])
			ne := float64(luts[lyi[y]][rxi[x]][v])
			sw := float64(luts[ryi[y]][lxi[x]][v])
			se := float64(luts[ryi[y]][rxi[x]][v])
			top := nw + (ne-nw)*wx[x]
			bot := sw + (se-sw)*wx[x]
			out[y*w+x] = raster.ClampU8(top + (bot-top)*wy[y])
		}
	}
	return out
}

// clipHistogram caps each bin at clipLimit times the uniform level and
// spreads the excess evenly over all bins.
func clipHistogram(counts []int, clipLimit float64, area int) {
	limit := int(clipLimit * float64(area) / Bins)
	if limit < 1 {
		limit = 1
	}
	excess := 0
	for v, n := range counts {
		if n > limit {
			excess += n - limit
			counts[v] = limit
		}
	}
	if excess == 0 {
		return
	}
	per := excess / Bins
	rem := excess % Bins
	for v := range counts {
		counts[v] += per
		if v < rem {
			counts[v]++
		}
	}
}

// axisBlend precomputes, for every coordinate along one axis, the indices
// of the two tiles whose centers bracket it and the interpolation weight
// toward the second one. Coordinates outside the outermost centers clamp
// to the edge tiles.
func axisBlend(size int, bounds []int) (lo, hi []int, weight []float64) {
	tiles := len(bounds) - 1
	centers := make([]float64, tiles)
	for t := 0; t < tiles; t++ {
		centers[t] = (float64(bounds[t]) + float64(bounds[t+1]) - 1) / 2
	}

	lo = make([]int, size)
	hi = make([]int, size)
	weight = make([]float64, size)
	for i := 0; i < size; i++ {
		pos := float64(i)
		t := 0
		for t < tiles-1 && centers[t+1] <= pos {
			t++
		}
		switch {
		case pos <= centers[0]:
			lo[i], hi[i], weight[i] = 0, 0, 0
		case pos >= centers[tiles-1]:
			lo[i], hi[i], weight[i] = tiles-1, tiles-1, 0
		default:
			lo[i], hi[i] = t, t+1
			weight[i] = (pos - centers[t]) / (centers[t+1] - centers[t])
		}
	}
	return lo, hi, weight
}

// bgrToYCrCb converts to 8-bit luma/chroma planes using the BT.601
// full-range constants.
func bgrToYCrCb(r *raster.Raster) (y, cr, cb []uint8) {
	n := r.Width * r.Height
	y = make([]uint8, n)
	cr = make([]uint8, n)
	cb = make([]uint8, n)
	for i := 0; i < n; i++ {
		o := i * 3
		bf := float64(r.Pix[o])
		gf := float64(r.Pix[o+1])
		rf := float64(r.Pix[o+2])
		luma := 0.299*rf + 0.587*gf + 0.114*bf
		y[i] = raster.ClampU8(luma)
		cr[i] = raster.ClampU8((rf-luma)*0.713 + 128)
		cb[i] = raster.ClampU8((bf-luma)*0.564 + 128)
	}
	return y, cr, cb
}

// ycrcbToBGR converts 8-bit luma/chroma planes back to a BGR raster.
func ycrcbToBGR(y, cr, cb []uint8, w, h int) *raster.Raster {
	out := raster.New(w, h, raster.BGR)
	for i := 0; i < w*h; i++ {
		yf := float64(y[i])
		crf := float64(cr[i]) - 128
		cbf := float64(cb[i]) - 128
		o := i * 3
		out.Pix[o] = raster.ClampU8(yf + 1.773*cbf)
		out.Pix[o+1] = raster.ClampU8(yf - 0.714*crf - 0.344*cbf)
		out.Pix[o+2] = raster.ClampU8(yf + 1.403*crf)
	}
	return out
}

// bgrToLab converts to an 8-bit L plane (L scaled to [0,255]) plus float a
// and b chroma planes, via CIE Lab (D65).
func bgrToLab(r *raster.Raster) (l []uint8, a, b []float64) {
	n := r.Width * r.Height
	l = make([]uint8, n)
	a = make([]float64, n)
	b = make([]float64, n)
	for i := 0; i < n; i++ {
		o := i * 3
		c := colorful.Color{
			R: float64(r.Pix[o+2]) / 255,
			G: float64(r.Pix[o+1]) / 255,
			B: float64(r.Pix[o]) / 255,
		}
		lf, af, bf := c.Lab()
		l[i] = raster.ClampU8(lf * 255)
		a[i] = af
		b[i] = bf
	}
	return l, a, b
}

// labToBGR rebuilds a BGR raster from an equalized L plane and the original
// chroma planes.
func labToBGR(l []uint8, a, b []float64, w, h int) *raster.Raster {
	out := raster.New(w, h, raster.BGR)
	for i := 0; i < w*h; i++ {
		c := colorful.Lab(float64(l[i])/255, a[i], b[i]).Clamped()
		o := i * 3
		out.Pix[o] = raster.ClampU8(c.B * 255)
		out.Pix[o+1] = raster.ClampU8(c.G * 255)
		out.Pix[o+2] = raster.ClampU8(c.R * 255)
	}
	return out
}
