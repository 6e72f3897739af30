// Package histogram analyzes and reshapes the intensity distribution of a
// raster.
//
// It computes exact per-channel histograms, performs global and
// contrast-limited adaptive (CLAHE) equalization, stretches contrast
// between percentile anchors, and reports descriptive statistics.
//
// # Color Handling
//
// Equalization never operates on color channels directly; doing so shifts
// hue. Global equalization converts to YCrCb and remaps only the luma
// channel; CLAHE converts to CIE Lab and remaps only L. Both restore the
// untouched chroma afterwards. Histogram counts and statistics, by
// contrast, are reported per BGR channel.
//
// # Degenerate Inputs
//
// Contrast stretch on a channel whose low and high percentiles coincide
// flattens that channel to 0 instead of dividing by zero. An empty
// histogram summarizes to zeros.
package histogram
