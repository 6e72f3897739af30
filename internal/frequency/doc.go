// Package frequency implements the Fourier-domain half of the processing
// engine: forward and inverse 2D transforms, spectrum visualization,
// parametric frequency masks, and homomorphic illumination correction.
//
// All operations work on the grayscale rendering of their input and return
// single-channel rasters. The transform itself is go-dsp's FFT, which
// handles arbitrary (not only power-of-two) dimensions.
//
// # Centering
//
// A raw DFT places the zero-frequency coefficient at index (0,0).
// Centering rolls the grid by (rows/2, cols/2) so that coefficient sits at
// the geometric center, which is where the radial masks and the familiar
// spectrum visualizations expect it. The roll is exactly reversible for
// even and odd dimensions, and Spectrum records on itself whether it was
// applied so Inverse can undo it.
//
// # Masks
//
// A Mask is a radial gain profile sampled over the centered grid. The
// distance field is normalized by the half-diagonal, so cutoffs live on a
// [0, 1] scale where 1 touches the image corners. Every sampled gain lies
// in [0, 1]. The one exception to the normalized scale is the homomorphic
// filter, whose cutoff is measured in raw pixels from the spectrum center.
//
// # Degenerate Inputs
//
// An all-zero magnitude grid visualizes as an all-black image rather than
// dividing by a zero maximum, and the Butterworth profiles carry an epsilon
// in their ratio forms so the exact spectrum center never divides by zero.
package frequency
