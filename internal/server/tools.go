package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema fragment shared by every tool that reads an
// image from disk.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file into the in-memory store and return its dimensions, format and channel layout. Oversized images are downscaled once at load time.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the working width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_list",
			Description: "List the images currently held in the in-memory store with their metadata.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Basic Operations
		{
			Name:        "image_grayscale",
			Description: "Convert an image to grayscale using the BT.601 luma weights and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_transform",
			Description: "Apply a geometric transform (crop, rotate, flip) and return the result as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"operation": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"crop", "rotate", "flip"},
						"description": "Transform to apply",
					},
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Crop only: left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Crop only: top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Crop only: right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Crop only: bottom edge Y coordinate (exclusive)",
					},
					"angle": map[string]interface{}{
						"type":        "integer",
						"enum":        []int{90, 180, 270},
						"description": "Rotate only: clockwise angle in degrees",
					},
					"direction": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"horizontal", "vertical"},
						"description": "Flip only: mirror axis. Default horizontal",
					},
				},
				"required": []string{"path", "operation"},
			},
		},

		// Histogram Operations
		{
			Name:        "image_histogram",
			Description: "Compute exact 256-bin histograms per channel along with per-channel summaries (min, max, peak bin, mean).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_statistics",
			Description: "Compute per-channel mean, standard deviation, min, max and median intensity values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "histogram_equalize",
			Description: "Equalize image contrast, either globally over the luma channel or locally with CLAHE tiles. Returns base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"global", "clahe"},
						"description": "Equalization method. Default global",
						"default":     "global",
					},
					"clip_limit": map[string]interface{}{
						"type":        "number",
						"description": "CLAHE only: histogram clip limit. Default 2.0",
						"default":     2.0,
					},
					"tile_grid_size": map[string]interface{}{
						"type":        "integer",
						"description": "CLAHE only: tiles per axis. Default 8",
						"default":     8,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "contrast_stretch",
			Description: "Stretch image contrast linearly between two percentiles of the intensity distribution. Returns base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"low": map[string]interface{}{
						"type":        "number",
						"description": "Lower percentile mapped to black. Default 2.0",
						"default":     2.0,
					},
					"high": map[string]interface{}{
						"type":        "number",
						"description": "Upper percentile mapped to white. Default 98.0",
						"default":     98.0,
					},
				},
				"required": []string{"path"},
			},
		},

		// Spatial Filtering
		{
			Name:        "filter_apply",
			Description: "Apply a spatial filter (blur, box_blur, median, bilateral, sharpen, unsharp_mask, edge_sobel, edge_laplacian, edge_canny, emboss, high_pass, low_pass, custom) and return the result as base64-encoded PNG. Use catalog_list for parameters and defaults.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"filter_type": map[string]interface{}{
						"type":        "string",
						"description": "Filter identifier, e.g. \"blur\" or \"edge_canny\"",
					},
					"params": map[string]interface{}{
						"type":        "object",
						"description": "Filter-specific parameters; omitted fields use their defaults",
					},
				},
				"required": []string{"path", "filter_type"},
			},
		},

		// Frequency Domain
		{
			Name:        "fourier_transform",
			Description: "Compute the centered 2D Fourier transform of the image (grayscale) and return magnitude and phase spectra as base64-encoded PNGs.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"log_scale": map[string]interface{}{
						"type":        "boolean",
						"description": "Log-compress the magnitude spectrum for display. Default true",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "fourier_inverse",
			Description: "Run the Fourier transform forward and back to reconstruct the image from magnitude and phase, demonstrating a lossless round trip.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "frequency_filter",
			Description: "Filter the image in the frequency domain with an ideal, gaussian or butterworth mask (lowpass, highpass, bandpass, bandstop). Returns the filtered image and the mask as base64-encoded PNGs.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"filter_type": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"lowpass", "highpass", "bandpass", "bandstop"},
						"description": "Frequency band to keep or reject. Default lowpass",
						"default":     "lowpass",
					},
					"filter_method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"ideal", "gaussian", "butterworth"},
						"description": "Mask profile. Default gaussian",
						"default":     "gaussian",
					},
					"cutoff": map[string]interface{}{
						"type":        "number",
						"description": "Normalized cutoff in [0, 1]. Default 0.3",
						"default":     0.3,
					},
					"cutoff_high": map[string]interface{}{
						"type":        "number",
						"description": "Upper cutoff for band filters, must exceed cutoff. Default 0.7",
						"default":     0.7,
					},
					"filter_order": map[string]interface{}{
						"type":        "integer",
						"description": "Butterworth only: transition sharpness, at least 1. Default 2",
						"default":     2,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "homomorphic_filter",
			Description: "Correct uneven illumination by attenuating low frequencies and boosting high frequencies in the log domain. Returns base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"gamma_low": map[string]interface{}{
						"type":        "number",
						"description": "Gain applied to low frequencies. Default 0.3",
						"default":     0.3,
					},
					"gamma_high": map[string]interface{}{
						"type":        "number",
						"description": "Gain applied to high frequencies. Default 1.5",
						"default":     1.5,
					},
					"cutoff": map[string]interface{}{
						"type":        "number",
						"description": "Transition distance in pixels, must be positive. Default 30",
						"default":     30,
					},
					"c": map[string]interface{}{
						"type":        "number",
						"description": "Transition sharpness constant. Default 1",
						"default":     1,
					},
				},
				"required": []string{"path"},
			},
		},

		// Noise Operations
		{
			Name:        "noise_add",
			Description: "Corrupt the image with synthetic noise (gaussian, salt_pepper, poisson, speckle, uniform). A fixed seed reproduces the same corruption. Returns base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"noise_type": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"gaussian", "salt_pepper", "poisson", "speckle", "uniform"},
						"description": "Noise model to apply",
					},
					"params": map[string]interface{}{
						"type":        "object",
						"description": "Model-specific parameters; omitted fields use their defaults",
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Random seed. Omit for a time-based seed",
					},
				},
				"required": []string{"path", "noise_type"},
			},
		},
		{
			Name:        "noise_remove",
			Description: "Remove noise with one of six methods (gaussian, median, bilateral, nlm, morphological, wiener). Returns base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"gaussian", "median", "bilateral", "nlm", "morphological", "wiener"},
						"description": "Denoising method. Default median",
						"default":     "median",
					},
					"params": map[string]interface{}{
						"type":        "object",
						"description": "Method-specific parameters; omitted fields use their defaults",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "noise_estimate",
			Description: "Estimate the noise standard deviation of the image using a robust estimator.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"mad", "laplacian", "wavelet"},
						"description": "Estimator to use. Default mad",
						"default":     "mad",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "denoise_compare",
			Description: "Run several denoising methods with default parameters and report MSE and PSNR against the input, with result previews.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"methods": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Methods to compare. Default all six",
					},
				},
				"required": []string{"path"},
			},
		},

		// Catalog
		{
			Name:        "catalog_list",
			Description: "List every supported filter, noise model, denoising method and estimator with parameter names and defaults.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
