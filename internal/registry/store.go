package registry

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// DefaultMaxDim caps the longest side of loaded images. Larger sources are
// downscaled on load so that frequency and search-window operations stay
// responsive.
const DefaultMaxDim = 1024

// Info describes a loaded image without exposing its pixel data.
type Info struct {
	// Path is the exact path string the image was loaded with.
	Path string `json:"path"`

	// Width and Height are the working dimensions after any downscale.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is the decoded container format, such as "png" or "jpeg".
	Format string `json:"format"`

	// Mode is the channel layout, "gray" or "bgr".
	Mode string `json:"mode"`

	// SourceWidth and SourceHeight are the dimensions on disk. They
	// differ from Width and Height only when Resized is true.
	SourceWidth  int  `json:"source_width"`
	SourceHeight int  `json:"source_height"`
	Resized      bool `json:"resized"`
}

// Entry pairs a decoded raster with its metadata.
type Entry struct {
	Raster *raster.Raster
	Info   Info
}

// Store provides thread-safe caching of decoded rasters to avoid redundant
// disk reads.
//
// Rasters are keyed by the exact path string they were loaded with, so
// relative and absolute paths to the same file occupy separate entries.
// Entries persist until Evict or Clear is called.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	mu      sync.RWMutex
	maxDim  int
	entries map[string]*Entry
}

// NewStore creates an empty store. Images whose longest side exceeds
// maxDim are downscaled on load; a maxDim of zero or less disables the
// cap.
func NewStore(maxDim int) *Store {
	return &Store{
		maxDim:  maxDim,
		entries: make(map[string]*Entry),
	}
}

// Load returns the entry for path, decoding it from disk on the first
// call. Supported formats are PNG, JPEG, GIF, BMP and TIFF.
//
// Returns an error if the file cannot be opened or decoded.
func (s *Store) Load(path string) (*Entry, error) {
	s.mu.RLock()
	if e, ok := s.entries[path]; ok {
		s.mu.RUnlock()
		return e, nil
	}
	s.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	r, format, err := raster.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	info := Info{
		Path:         path,
		Format:       format,
		Mode:         r.Order.String(),
		SourceWidth:  r.Width,
		SourceHeight: r.Height,
	}
	if s.maxDim > 0 && (r.Width > s.maxDim || r.Height > s.maxDim) {
		r = raster.Fit(r, s.maxDim)
		info.Resized = true
	}
	info.Width = r.Width
	info.Height = r.Height

	e := &Entry{Raster: r, Info: info}
	s.mu.Lock()
	s.entries[path] = e
	s.mu.Unlock()
	return e, nil
}

// Get returns the cached entry for path without touching the disk.
func (s *Store) Get(path string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[path]
	return e, ok
}

// Paths lists the loaded paths in sorted order.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.entries))
	for p := range s.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Evict removes the entry for path, if present.
func (s *Store) Evict(path string) {
	s.mu.Lock()
	delete(s.entries, path)
	s.mu.Unlock()
}

// Clear removes all entries, freeing the associated memory.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*Entry)
	s.mu.Unlock()
}
