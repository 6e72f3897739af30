package raster

import (
	"image"

	"github.com/disintegration/imaging"
)

// Crop extracts the rectangle (x1,y1)-(x2,y2), inclusive top-left and
// exclusive bottom-right, preserving the channel layout.
func Crop(r *Raster, x1, y1, x2, y2 int) (*Raster, error) {
	if x1 < 0 || y1 < 0 || x2 > r.Width || y2 > r.Height {
		return nil, InvalidParam("region", "crop region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			x1, y1, x2, y2, r.Width, r.Height)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, InvalidParam("region", "x1 must be < x2 and y1 must be < y2")
	}
	return fromOp(r, imaging.Crop(r.ToImage(), image.Rect(x1, y1, x2, y2))), nil
}

// Rotate turns the image clockwise by 90, 180, or 270 degrees.
func Rotate(r *Raster, angle int) (*Raster, error) {
	var img image.Image
	switch angle {
	case 90:
		img = imaging.Rotate270(r.ToImage())
	case 180:
		img = imaging.Rotate180(r.ToImage())
	case 270:
		img = imaging.Rotate90(r.ToImage())
	default:
		return nil, InvalidParam("angle", "must be 90, 180, or 270, got %d", angle)
	}
	return fromOp(r, img), nil
}

// Flip mirrors the image horizontally (left-right) or vertically
// (top-bottom).
func Flip(r *Raster, horizontal bool) *Raster {
	if horizontal {
		return fromOp(r, imaging.FlipH(r.ToImage()))
	}
	return fromOp(r, imaging.FlipV(r.ToImage()))
}

// Fit scales the image down so neither dimension exceeds maxDim, keeping
// the aspect ratio. Images already within the limit are returned as a copy.
func Fit(r *Raster, maxDim int) *Raster {
	if maxDim <= 0 || (r.Width <= maxDim && r.Height <= maxDim) {
		return r.Clone()
	}
	return fromOp(r, imaging.Fit(r.ToImage(), maxDim, maxDim, imaging.Box))
}

// fromOp rebuilds a Raster from a geometry result, restoring the source
// channel layout. Gray sources survive the round trip exactly because the
// luma of an equal-channel pixel is the pixel value itself.
func fromOp(src *Raster, img image.Image) *Raster {
	out := FromImage(img)
	if src.Order == Gray {
		return out.Grayscale()
	}
	return out
}
