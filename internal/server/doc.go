// Package server implements the MCP (Model Context Protocol) server for the
// image processing engine.
//
// This package provides a JSON-RPC 2.0 server that exposes histogram,
// spatial, frequency domain and noise operations through the MCP protocol.
// It's designed to work with Claude and other MCP-compatible clients.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// The server provides 19 tools organized into categories:
//
// Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_list: List loaded images
//
// Basic Operations:
//   - image_grayscale: BT.601 grayscale conversion
//   - image_transform: Crop, rotate, flip
//
// Histogram Operations:
//   - image_histogram: Exact 256-bin histograms with summaries
//   - image_statistics: Per-channel intensity statistics
//   - histogram_equalize: Global or CLAHE equalization
//   - contrast_stretch: Percentile-based linear stretch
//
// Spatial Filtering:
//   - filter_apply: Thirteen convolution and rank filters
//
// Frequency Domain:
//   - fourier_transform: Magnitude and phase spectra
//   - fourier_inverse: Round-trip reconstruction
//   - frequency_filter: Ideal, gaussian and butterworth masks
//   - homomorphic_filter: Illumination correction
//
// Noise Operations:
//   - noise_add: Five synthetic noise models
//   - noise_remove: Six denoising methods
//   - noise_estimate: Robust noise level estimators
//   - denoise_compare: Side-by-side method comparison
//
// Catalog:
//   - catalog_list: Operation discovery with defaults
//
// # Image Caching
//
// The server maintains an in-memory store of decoded images. Images are
// cached by path and reused across multiple tool calls, avoiding redundant
// disk I/O. Oversized images are downscaled once at load time. A separate
// bounded cache memoizes filter_apply results keyed by a digest of the
// request, evicting the oldest entry when full.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Parameter violations surface before any pixel work happens, so a failed
// call never changes server state.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(nil)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
