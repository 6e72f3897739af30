package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"
)

// ChannelOrder identifies the channel layout of a Raster.
type ChannelOrder int

const (
	// Gray is a single-channel layout.
	Gray ChannelOrder = iota
	// BGR is a three-channel layout ordered blue, green, red. This matches
	// the legacy byte order of the processing pipeline and is preserved for
	// compatibility in histograms, statistics, and encoded output.
	BGR
)

// String returns the layout name.
func (o ChannelOrder) String() string {
	if o == Gray {
		return "gray"
	}
	return "bgr"
}

// Channels returns the number of channels in the layout.
func (o ChannelOrder) Channels() int {
	if o == Gray {
		return 1
	}
	return 3
}

// Raster is an 8-bit image buffer, height x width, with 1 (gray) or 3 (BGR)
// interleaved channels. Samples are stored row-major. Operations never
// mutate a Raster in place; they allocate and return a new one.
type Raster struct {
	Width  int
	Height int
	Order  ChannelOrder
	Pix    []uint8
}

// New allocates a zeroed Raster with the given dimensions and layout.
func New(width, height int, order ChannelOrder) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Order:  order,
		Pix:    make([]uint8, width*height*order.Channels()),
	}
}

// Channels returns the number of channels (1 or 3).
func (r *Raster) Channels() int { return r.Order.Channels() }

// At returns the sample at (x, y) in channel c. Coordinates are 0-based
// with the origin at the top-left corner.
func (r *Raster) At(x, y, c int) uint8 {
	return r.Pix[(y*r.Width+x)*r.Channels()+c]
}

// Set stores the sample at (x, y) in channel c.
func (r *Raster) Set(x, y, c int, v uint8) {
	r.Pix[(y*r.Width+x)*r.Channels()+c] = v
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	out := New(r.Width, r.Height, r.Order)
	copy(out.Pix, r.Pix)
	return out
}

// FromImage converts a decoded image into a BGR Raster. The source is
// normalized through an RGBA clone first so any image.Image subtype is
// handled uniformly; alpha is discarded.
func FromImage(img image.Image) *Raster {
	rgba := clone.AsRGBA(img)
	b := rgba.Bounds()
	out := New(b.Dx(), b.Dy(), BGR)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			i := rgba.PixOffset(b.Min.X+x, b.Min.Y+y)
			o := (y*out.Width + x) * 3
			out.Pix[o] = rgba.Pix[i+2]
			out.Pix[o+1] = rgba.Pix[i+1]
			out.Pix[o+2] = rgba.Pix[i]
		}
	}
	return out
}

// ToImage converts the Raster back to a standard image for encoding.
// Gray rasters become *image.Gray; BGR rasters become *image.RGBA with the
// channels swapped back to RGB and alpha set to opaque.
func (r *Raster) ToImage() image.Image {
	if r.Order == Gray {
		img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
		copy(img.Pix, r.Pix)
		return img
	}
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			o := (y*r.Width + x) * 3
			img.SetRGBA(x, y, color.RGBA{
				R: r.Pix[o+2],
				G: r.Pix[o+1],
				B: r.Pix[o],
				A: 255,
			})
		}
	}
	return img
}

// Grayscale converts to a single-channel Raster using the standard
// luma weights (0.114 B + 0.587 G + 0.299 R), rounded to the nearest
// integer. A gray input is returned as a copy.
func (r *Raster) Grayscale() *Raster {
	if r.Order == Gray {
		return r.Clone()
	}
	out := New(r.Width, r.Height, Gray)
	for i := 0; i < r.Width*r.Height; i++ {
		o := i * 3
		v := 0.114*float64(r.Pix[o]) + 0.587*float64(r.Pix[o+1]) + 0.299*float64(r.Pix[o+2])
		out.Pix[i] = ClampU8(v)
	}
	return out
}

// Plane extracts channel c as a height x width float grid for numeric work.
func (r *Raster) Plane(c int) [][]float64 {
	ch := r.Channels()
	p := make([][]float64, r.Height)
	for y := 0; y < r.Height; y++ {
		row := make([]float64, r.Width)
		base := y * r.Width * ch
		for x := 0; x < r.Width; x++ {
			row[x] = float64(r.Pix[base+x*ch+c])
		}
		p[y] = row
	}
	return p
}

// FromPlanes assembles a Raster from per-channel float grids, clamping and
// rounding every sample back to [0, 255]. The number of planes must match
// the layout and all planes must share one shape.
func FromPlanes(order ChannelOrder, planes ...[][]float64) *Raster {
	h := len(planes[0])
	w := 0
	if h > 0 {
		w = len(planes[0][0])
	}
	out := New(w, h, order)
	ch := order.Channels()
	for c, p := range planes {
		for y := 0; y < h; y++ {
			base := y * w * ch
			for x := 0; x < w; x++ {
				out.Pix[base+x*ch+c] = ClampU8(p[y][x])
			}
		}
	}
	return out
}

// ClampU8 rounds v to the nearest integer and clamps it to [0, 255].
func ClampU8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
