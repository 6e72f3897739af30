// Package registry keeps decoded images and memoized results in memory
// for the lifetime of the server process.
//
// Store caches rasters keyed by file path so repeated operations on the
// same image skip disk I/O and decoding. Oversized sources are downscaled
// once at load time. ResultCache memoizes encoded operation outputs under
// a digest of the operation and its parameters, evicting the oldest entry
// when full.
package registry
