package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/GoldenBoy13420/Pixalyze/internal/frequency"
	"github.com/GoldenBoy13420/Pixalyze/internal/histogram"
	"github.com/GoldenBoy13420/Pixalyze/internal/noise"
	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
	"github.com/GoldenBoy13420/Pixalyze/internal/registry"
	"github.com/GoldenBoy13420/Pixalyze/internal/spatial"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "filter_apply").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"tool":  params.Name,
			"error": err,
		}).Warn("tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from the store as needed
//  4. Calls the appropriate engine function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	s.log.WithField("tool", name).Debug("executing tool")

	switch name {
	// Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_list":
		return s.handleImageList(args)

	// Basic Operations
	case "image_grayscale":
		return s.handleImageGrayscale(args)
	case "image_transform":
		return s.handleImageTransform(args)

	// Histogram Operations
	case "image_histogram":
		return s.handleImageHistogram(args)
	case "image_statistics":
		return s.handleImageStatistics(args)
	case "histogram_equalize":
		return s.handleHistogramEqualize(args)
	case "contrast_stretch":
		return s.handleContrastStretch(args)

	// Spatial Filtering
	case "filter_apply":
		return s.handleFilterApply(args)

	// Frequency Domain
	case "fourier_transform":
		return s.handleFourierTransform(args)
	case "fourier_inverse":
		return s.handleFourierInverse(args)
	case "frequency_filter":
		return s.handleFrequencyFilter(args)
	case "homomorphic_filter":
		return s.handleHomomorphicFilter(args)

	// Noise Operations
	case "noise_add":
		return s.handleNoiseAdd(args)
	case "noise_remove":
		return s.handleNoiseRemove(args)
	case "noise_estimate":
		return s.handleNoiseEstimate(args)
	case "denoise_compare":
		return s.handleDenoiseCompare(args)

	// Catalog
	case "catalog_list":
		return s.handleCatalogList(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageResult is the common payload for tools that return a processed image.
type imageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Mode        string `json:"mode"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// imagePayload encodes a raster as a base64 PNG result.
func imagePayload(r *raster.Raster) (*imageResult, error) {
	data, err := raster.EncodePNG(r)
	if err != nil {
		return nil, err
	}
	return &imageResult{
		Width:       r.Width,
		Height:      r.Height,
		Mode:        r.Order.String(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

// === Image Information Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return e.Info, nil
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return map[string]int{
		"width":  e.Info.Width,
		"height": e.Info.Height,
	}, nil
}

func (s *Server) handleImageList(json.RawMessage) (interface{}, error) {
	paths := s.store.Paths()
	infos := make([]registry.Info, 0, len(paths))
	for _, p := range paths {
		if e, ok := s.store.Get(p); ok {
			infos = append(infos, e.Info)
		}
	}
	return map[string]interface{}{
		"count":  len(infos),
		"images": infos,
	}, nil
}

// === Basic Operation Handlers ===

func (s *Server) handleImageGrayscale(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imagePayload(e.Raster.Grayscale())
}

type imageTransformArgs struct {
	Path      string `json:"path"`
	Operation string `json:"operation"`
	X1        int    `json:"x1"`
	Y1        int    `json:"y1"`
	X2        int    `json:"x2"`
	Y2        int    `json:"y2"`
	Angle     int    `json:"angle"`
	Direction string `json:"direction"`
}

func (s *Server) handleImageTransform(args json.RawMessage) (interface{}, error) {
	var a imageTransformArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var out *raster.Raster
	switch a.Operation {
	case "crop":
		out, err = raster.Crop(e.Raster, a.X1, a.Y1, a.X2, a.Y2)
	case "rotate":
		out, err = raster.Rotate(e.Raster, a.Angle)
	case "flip":
		out = raster.Flip(e.Raster, a.Direction != "vertical")
	default:
		return nil, &raster.UnsupportedOperationError{Kind: "transform", Name: a.Operation}
	}
	if err != nil {
		return nil, err
	}
	return imagePayload(out)
}

// === Histogram Operation Handlers ===

func (s *Server) handleImageHistogram(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	h := histogram.Compute(e.Raster)
	return map[string]interface{}{
		"bins":      histogram.Bins,
		"channels":  h,
		"summaries": histogram.Summarize(h),
	}, nil
}

func (s *Server) handleImageStatistics(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"width":      e.Info.Width,
		"height":     e.Info.Height,
		"mode":       e.Info.Mode,
		"statistics": histogram.Statistics(e.Raster),
	}, nil
}

type histogramEqualizeArgs struct {
	Path         string  `json:"path"`
	Method       string  `json:"method"`
	ClipLimit    float64 `json:"clip_limit"`
	TileGridSize int     `json:"tile_grid_size"`
}

func (s *Server) handleHistogramEqualize(args json.RawMessage) (interface{}, error) {
	a := histogramEqualizeArgs{
		Method:       "global",
		ClipLimit:    histogram.DefaultClipLimit,
		TileGridSize: histogram.DefaultTileGrid,
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var out *raster.Raster
	switch a.Method {
	case "global":
		out = histogram.EqualizeGlobal(e.Raster)
	case "clahe":
		out, err = histogram.EqualizeCLAHE(e.Raster, a.ClipLimit, a.TileGridSize, a.TileGridSize)
		if err != nil {
			return nil, err
		}
	default:
		return nil, &raster.UnsupportedOperationError{Kind: "equalization method", Name: a.Method}
	}
	return imagePayload(out)
}

type contrastStretchArgs struct {
	Path string  `json:"path"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

func (s *Server) handleContrastStretch(args json.RawMessage) (interface{}, error) {
	a := contrastStretchArgs{
		Low:  histogram.DefaultStretchLow,
		High: histogram.DefaultStretchHigh,
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := histogram.ContrastStretch(e.Raster, a.Low, a.High)
	if err != nil {
		return nil, err
	}
	return imagePayload(out)
}

// === Spatial Filtering Handlers ===

type filterApplyArgs struct {
	Path       string          `json:"path"`
	FilterType string          `json:"filter_type"`
	Params     json.RawMessage `json:"params"`
}

func (s *Server) handleFilterApply(args json.RawMessage) (interface{}, error) {
	var a filterApplyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := requireOddKernel(a.Params); err != nil {
		return nil, err
	}

	key := registry.Key("filter_apply", a.Path, a.FilterType, string(a.Params))
	if data, ok := s.results.Get(key); ok {
		s.log.WithField("tool", "filter_apply").Debug("result cache hit")
		return json.RawMessage(data), nil
	}

	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	f, err := spatial.Decode(a.FilterType, a.Params)
	if err != nil {
		return nil, err
	}
	out, err := spatial.Apply(e.Raster, f)
	if err != nil {
		return nil, err
	}
	payload, err := imagePayload(out)
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"filter_type": a.FilterType,
		"result":      payload,
	}
	if data, err := json.Marshal(result); err == nil {
		s.results.Put(key, data)
	}
	return result, nil
}

// requireOddKernel rejects an explicit even kernel_size at the tool
// boundary. The engines quietly bump even sizes, but callers asking for an
// even kernel almost always hold a stale assumption worth surfacing.
func requireOddKernel(params json.RawMessage) error {
	if len(params) == 0 {
		return nil
	}
	var p struct {
		KernelSize *int `json:"kernel_size"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil
	}
	if p.KernelSize != nil && *p.KernelSize%2 == 0 {
		return raster.InvalidParam("kernel_size", "must be odd, got %d", *p.KernelSize)
	}
	return nil
}

// === Frequency Domain Handlers ===

type fourierTransformArgs struct {
	Path     string `json:"path"`
	LogScale *bool  `json:"log_scale"`
}

func (s *Server) handleFourierTransform(args json.RawMessage) (interface{}, error) {
	var a fourierTransformArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	logScale := true
	if a.LogScale != nil {
		logScale = *a.LogScale
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}

	spec := frequency.Forward(e.Raster, true)
	magVis, err := spec.VisualizeMagnitude(logScale)
	if err != nil {
		return nil, err
	}
	phaseVis, err := spec.VisualizePhase()
	if err != nil {
		return nil, err
	}
	magPayload, err := imagePayload(magVis)
	if err != nil {
		return nil, err
	}
	phasePayload, err := imagePayload(phaseVis)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"log_scale":          logScale,
		"magnitude_spectrum": magPayload,
		"phase_spectrum":     phasePayload,
	}, nil
}

func (s *Server) handleFourierInverse(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}

	// Forward then inverse demonstrates that magnitude and phase carry
	// the full image.
	spec := frequency.Forward(e.Raster, true)
	out, err := frequency.Inverse(spec)
	if err != nil {
		return nil, err
	}
	payload, err := imagePayload(out)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"reconstructed_image": payload,
	}, nil
}

type frequencyFilterArgs struct {
	Path         string  `json:"path"`
	FilterType   string  `json:"filter_type"`
	FilterMethod string  `json:"filter_method"`
	Cutoff       float64 `json:"cutoff"`
	CutoffHigh   float64 `json:"cutoff_high"`
	FilterOrder  int     `json:"filter_order"`
}

func (s *Server) handleFrequencyFilter(args json.RawMessage) (interface{}, error) {
	a := frequencyFilterArgs{
		FilterType:   "lowpass",
		FilterMethod: "gaussian",
		Cutoff:       0.3,
		CutoffHigh:   0.7,
		FilterOrder:  2,
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}

	mask, err := frequency.DecodeMask(a.FilterMethod, a.FilterType, a.Cutoff, a.CutoffHigh, a.FilterOrder)
	if err != nil {
		return nil, err
	}
	out, grid, err := frequency.Filter(e.Raster, mask)
	if err != nil {
		return nil, err
	}
	payload, err := imagePayload(out)
	if err != nil {
		return nil, err
	}
	maskPayload, err := imagePayload(maskVisualization(grid))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"filter_type":   a.FilterType,
		"filter_method": a.FilterMethod,
		"result_image":  payload,
		"filter_mask":   maskPayload,
	}, nil
}

// maskVisualization renders a gain grid in [0, 1] as a grayscale raster.
func maskVisualization(grid [][]float64) *raster.Raster {
	vis := make([][]float64, len(grid))
	for y, row := range grid {
		vis[y] = make([]float64, len(row))
		for x, v := range row {
			vis[y][x] = v * 255
		}
	}
	return raster.FromPlanes(raster.Gray, vis)
}

func (s *Server) handleHomomorphicFilter(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	f := frequency.DefaultHomomorphic()
	if err := json.Unmarshal(args, &f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := f.Apply(e.Raster)
	if err != nil {
		return nil, err
	}
	payload, err := imagePayload(out)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"gamma_low":    f.GammaLow,
		"gamma_high":   f.GammaHigh,
		"cutoff":       f.Cutoff,
		"c":            f.Sharpness,
		"result_image": payload,
	}, nil
}

// === Noise Operation Handlers ===

type noiseAddArgs struct {
	Path      string          `json:"path"`
	NoiseType string          `json:"noise_type"`
	Params    json.RawMessage `json:"params"`
	Seed      *int64          `json:"seed"`
}

func (s *Server) handleNoiseAdd(args json.RawMessage) (interface{}, error) {
	var a noiseAddArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	n, err := noise.Decode(a.NoiseType, a.Params)
	if err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if a.Seed != nil {
		seed = *a.Seed
	}
	out, err := noise.AddNoise(e.Raster, n, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	payload, err := imagePayload(out)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"noise_type":   a.NoiseType,
		"seed":         seed,
		"result_image": payload,
	}, nil
}

type noiseRemoveArgs struct {
	Path   string          `json:"path"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

func (s *Server) handleNoiseRemove(args json.RawMessage) (interface{}, error) {
	a := noiseRemoveArgs{Method: "median"}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	d, err := noise.DecodeDenoiser(a.Method, a.Params)
	if err != nil {
		return nil, err
	}
	out, err := noise.Denoise(e.Raster, d)
	if err != nil {
		return nil, err
	}
	payload, err := imagePayload(out)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"method":       a.Method,
		"result_image": payload,
	}, nil
}

type noiseEstimateArgs struct {
	Path   string `json:"path"`
	Method string `json:"method"`
}

func (s *Server) handleNoiseEstimate(args json.RawMessage) (interface{}, error) {
	a := noiseEstimateArgs{Method: "mad"}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	method, err := noise.ParseEstimator(a.Method)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"method":      method.String(),
		"noise_level": noise.EstimateNoise(e.Raster, method),
	}, nil
}

type denoiseCompareArgs struct {
	Path    string   `json:"path"`
	Methods []string `json:"methods"`
}

// denoiseCompareEntry is the per-method outcome of denoise_compare. A
// method that fails carries its error instead of an image.
type denoiseCompareEntry struct {
	MSE   float64      `json:"mse"`
	PSNR  float64      `json:"psnr"`
	Image *imageResult `json:"result,omitempty"`
	Error string       `json:"error,omitempty"`
}

func (s *Server) handleDenoiseCompare(args json.RawMessage) (interface{}, error) {
	var a denoiseCompareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Methods) == 0 {
		a.Methods = []string{"gaussian", "median", "bilateral", "nlm", "morphological", "wiener"}
	}
	e, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}

	results := make(map[string]denoiseCompareEntry, len(a.Methods))
	for _, method := range a.Methods {
		d, err := noise.DecodeDenoiser(method, nil)
		if err != nil {
			// Unknown names are skipped rather than failing the batch.
			continue
		}
		out, err := noise.Denoise(e.Raster, d)
		if err != nil {
			results[method] = denoiseCompareEntry{Error: err.Error()}
			continue
		}
		metrics, err := noise.Compare(e.Raster, out)
		if err != nil {
			results[method] = denoiseCompareEntry{Error: err.Error()}
			continue
		}
		payload, err := imagePayload(out)
		if err != nil {
			results[method] = denoiseCompareEntry{Error: err.Error()}
			continue
		}
		results[method] = denoiseCompareEntry{
			MSE:   metrics.MSE,
			PSNR:  metrics.PSNR,
			Image: payload,
		}
	}
	return map[string]interface{}{
		"results": results,
	}, nil
}
