// Package raster defines the in-memory image buffer shared by every
// processing engine.
//
// A Raster is a height x width grid of 8-bit samples with either one
// channel (gray) or three channels in blue, green, red order. The BGR
// layout matches the historical byte order of the pipeline and is carried
// through histograms, statistics, and encoded output; the layout is an
// explicit ChannelOrder tag on the type rather than a positional
// convention.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Crop regions use an
// inclusive top-left and exclusive bottom-right corner.
//
// # Numeric Model
//
// Samples rest as uint8 in [0, 255]. Engines lift channels into float64
// planes (Plane), compute, and assemble results with FromPlanes, which
// rounds to the nearest integer and clamps. No operation mutates its input;
// every result is a freshly allocated buffer.
//
// # Errors
//
// The package also defines the error taxonomy used across the engines:
// InvalidParameterError for constraint violations, UnsupportedOperationError
// for unknown operation names at the decode boundary, and
// ShapeMismatchError for incompatible grid or kernel dimensions. Degenerate
// numeric inputs (zero divisors derived from data) are handled by explicit
// guards in the engines and never surface as errors.
package raster
