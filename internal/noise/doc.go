// Package noise synthesizes image noise, removes it, and estimates its
// magnitude.
//
// # Synthesis
//
// AddNoise corrupts a raster with one of five models: gaussian additive
// noise, salt and pepper impulses, poisson shot noise, multiplicative
// speckle, or uniform additive noise. The caller provides the random
// source, so runs are reproducible under a fixed seed. Results are always
// clamped back to the 8-bit range.
//
// # Removal
//
// Denoise runs one of six methods: gaussian, median and bilateral reuse
// the spatial filters, while non-local means, morphological opening and
// closing, and the adaptive Wiener filter are implemented here on channel
// planes. The Wiener noise floor defaults to a per-channel estimate when
// the caller does not supply one.
//
// # Estimation
//
// EstimateNoise reports a single standard deviation for the whole image
// using one of three estimators. Color images are reduced to grayscale
// first, and a flat image estimates exactly zero.
package noise
