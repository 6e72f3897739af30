// Package spatial implements convolution-based image filters.
//
// Every operation is a Filter value: a small parameter struct for one of
// the closed set of operations (Gaussian, Box, Median, Bilateral, Sharpen,
// Unsharp, Sobel, Laplacian, Canny, Emboss, HighPass, LowPass, Custom).
// Apply validates the parameters and returns a new raster; Decode builds a
// Filter from a wire name plus JSON parameters with the documented
// defaults filled in.
//
// # Border Handling
//
// All windowed operations replicate edge pixels outward, so a filter never
// reads outside the image and output dimensions always equal input
// dimensions.
//
// # Color Handling
//
// Filters apply to each channel independently and preserve the channel
// count, with one exception: the edge detectors (Sobel, Laplacian, Canny)
// convert to grayscale first and always return a single-channel result.
//
// # Kernel Sizes
//
// Kernel sizes are forced odd by incrementing even values. Sizes below 1
// or above MaxKernel are rejected as invalid parameters before any pixel
// work happens.
package spatial
