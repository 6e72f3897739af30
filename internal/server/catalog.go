package server

import "encoding/json"

// catalogEntry describes one operation for discovery: a display name, the
// accepted parameter names, and their defaults.
type catalogEntry struct {
	Name     string                 `json:"name"`
	Params   []string               `json:"params"`
	Defaults map[string]interface{} `json:"defaults,omitempty"`
}

// handleCatalogList reports every operation the other tools accept, with
// parameter names and defaults, so clients can discover them instead of
// guessing.
func (s *Server) handleCatalogList(json.RawMessage) (interface{}, error) {
	return map[string]interface{}{
		"filters":           spatialFilterCatalog(),
		"frequency_filters": frequencyFilterCatalog(),
		"frequency_methods": frequencyMethodCatalog(),
		"noise_types":       noiseTypeCatalog(),
		"denoise_methods":   denoiseMethodCatalog(),
		"noise_estimators":  []string{"mad", "laplacian", "wavelet"},
		"equalize_methods":  []string{"global", "clahe"},
		"transforms":        []string{"crop", "rotate", "flip"},
	}, nil
}

func spatialFilterCatalog() map[string]catalogEntry {
	return map[string]catalogEntry{
		"blur": {
			Name:     "Gaussian Blur",
			Params:   []string{"kernel_size", "sigma"},
			Defaults: map[string]interface{}{"kernel_size": 5, "sigma": 1.0},
		},
		"box_blur": {
			Name:     "Box Blur",
			Params:   []string{"kernel_size"},
			Defaults: map[string]interface{}{"kernel_size": 5},
		},
		"median": {
			Name:     "Median Filter",
			Params:   []string{"kernel_size"},
			Defaults: map[string]interface{}{"kernel_size": 5},
		},
		"bilateral": {
			Name:     "Bilateral Filter",
			Params:   []string{"d", "sigma_color", "sigma_space"},
			Defaults: map[string]interface{}{"d": 9, "sigma_color": 75, "sigma_space": 75},
		},
		"sharpen": {
			Name:     "Sharpen",
			Params:   []string{"strength"},
			Defaults: map[string]interface{}{"strength": 1.0},
		},
		"unsharp_mask": {
			Name:     "Unsharp Mask",
			Params:   []string{"sigma", "strength", "threshold"},
			Defaults: map[string]interface{}{"sigma": 1.0, "strength": 1.5, "threshold": 0},
		},
		"edge_sobel": {
			Name:     "Sobel Edge Detection",
			Params:   []string{"ksize"},
			Defaults: map[string]interface{}{"ksize": 3},
		},
		"edge_laplacian": {
			Name:     "Laplacian Edge Detection",
			Params:   []string{"ksize"},
			Defaults: map[string]interface{}{"ksize": 3},
		},
		"edge_canny": {
			Name:     "Canny Edge Detection",
			Params:   []string{"threshold1", "threshold2"},
			Defaults: map[string]interface{}{"threshold1": 100, "threshold2": 200},
		},
		"emboss": {
			Name:   "Emboss",
			Params: []string{},
		},
		"high_pass": {
			Name:     "High Pass",
			Params:   []string{"kernel_size"},
			Defaults: map[string]interface{}{"kernel_size": 3},
		},
		"low_pass": {
			Name:     "Low Pass",
			Params:   []string{"kernel_size"},
			Defaults: map[string]interface{}{"kernel_size": 5},
		},
		"custom": {
			Name:   "Custom Kernel",
			Params: []string{"kernel"},
		},
	}
}

func frequencyFilterCatalog() map[string]catalogEntry {
	return map[string]catalogEntry{
		"lowpass": {
			Name:   "Low Pass Filter",
			Params: []string{"cutoff", "filter_method", "filter_order"},
		},
		"highpass": {
			Name:   "High Pass Filter",
			Params: []string{"cutoff", "filter_method", "filter_order"},
		},
		"bandpass": {
			Name:   "Band Pass Filter",
			Params: []string{"cutoff", "cutoff_high", "filter_method", "filter_order"},
		},
		"bandstop": {
			Name:   "Band Stop Filter",
			Params: []string{"cutoff", "cutoff_high", "filter_method", "filter_order"},
		},
		"homomorphic": {
			Name:     "Homomorphic Filter",
			Params:   []string{"gamma_low", "gamma_high", "cutoff", "c"},
			Defaults: map[string]interface{}{"gamma_low": 0.3, "gamma_high": 1.5, "cutoff": 30, "c": 1},
		},
	}
}

func frequencyMethodCatalog() map[string]string {
	return map[string]string{
		"ideal":       "Sharp cutoff",
		"gaussian":    "Smooth Gaussian transition",
		"butterworth": "Adjustable transition sharpness",
	}
}

func noiseTypeCatalog() map[string]catalogEntry {
	return map[string]catalogEntry{
		"gaussian": {
			Name:     "Gaussian Noise",
			Params:   []string{"mean", "std"},
			Defaults: map[string]interface{}{"mean": 0, "std": 25},
		},
		"salt_pepper": {
			Name:     "Salt and Pepper Noise",
			Params:   []string{"amount", "salt_ratio"},
			Defaults: map[string]interface{}{"amount": 0.05, "salt_ratio": 0.5},
		},
		"poisson": {
			Name:     "Poisson Noise",
			Params:   []string{"scale"},
			Defaults: map[string]interface{}{"scale": 1.0},
		},
		"speckle": {
			Name:     "Speckle Noise",
			Params:   []string{"std"},
			Defaults: map[string]interface{}{"std": 0.1},
		},
		"uniform": {
			Name:     "Uniform Noise",
			Params:   []string{"low", "high"},
			Defaults: map[string]interface{}{"low": -50, "high": 50},
		},
	}
}

func denoiseMethodCatalog() map[string]catalogEntry {
	return map[string]catalogEntry{
		"gaussian": {
			Name:     "Gaussian Blur",
			Params:   []string{"kernel_size", "sigma"},
			Defaults: map[string]interface{}{"kernel_size": 5, "sigma": 1.0},
		},
		"median": {
			Name:     "Median Filter",
			Params:   []string{"kernel_size"},
			Defaults: map[string]interface{}{"kernel_size": 5},
		},
		"bilateral": {
			Name:     "Bilateral Filter",
			Params:   []string{"d", "sigma_color", "sigma_space"},
			Defaults: map[string]interface{}{"d": 9, "sigma_color": 75, "sigma_space": 75},
		},
		"nlm": {
			Name:     "Non-Local Means",
			Params:   []string{"h", "template_window_size", "search_window_size"},
			Defaults: map[string]interface{}{"h": 10, "template_window_size": 7, "search_window_size": 21},
		},
		"morphological": {
			Name:     "Morphological Opening/Closing",
			Params:   []string{"kernel_size", "operation"},
			Defaults: map[string]interface{}{"kernel_size": 5, "operation": "opening"},
		},
		"wiener": {
			Name:     "Wiener Filter",
			Params:   []string{"noise_variance"},
			Defaults: map[string]interface{}{"noise_variance": nil},
		},
	}
}
