package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	// Register the decoders for every supported upload format.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Decode reads an encoded image (PNG, JPEG, GIF, BMP, or TIFF) and returns
// it as a BGR Raster along with the detected format name.
func Decode(rd io.Reader) (*Raster, string, error) {
	img, format, err := image.Decode(rd)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), format, nil
}

// EncodePNG serializes the Raster as a PNG byte stream.
func EncodePNG(r *Raster) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.ToImage()); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
