package server

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/GoldenBoy13420/Pixalyze/internal/histogram"
	"github.com/GoldenBoy13420/Pixalyze/internal/raster"
)

// createTestImageFile writes a PNG and returns its path. The fill function
// receives pixel coordinates so tests can build gradients as well as solid
// colors.
func createTestImageFile(t *testing.T, width, height int, fill func(x, y int) color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill(x, y))
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}

	return path
}

func solid(c color.Color) func(x, y int) color.Color {
	return func(x, y int) color.Color { return c }
}

func gradient(x, y int) color.Color {
	return color.RGBA{uint8(x * 5 % 256), uint8(y * 7 % 256), uint8((x + y) * 3 % 256), 255}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 100, 80, solid(color.RGBA{255, 0, 0, 255}))

	params := map[string]interface{}{
		"name": "image_load",
		"arguments": map[string]interface{}{
			"path": imgPath,
		},
	}
	paramsJSON, _ := json.Marshal(params)

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) == 0 {
		t.Fatal("Result should carry a content list")
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}

	var info struct {
		Width   int    `json:"width"`
		Height  int    `json:"height"`
		Format  string `json:"format"`
		Mode    string `json:"mode"`
		Resized bool   `json:"resized"`
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &info); err != nil {
		t.Fatalf("content text is not valid JSON: %v", err)
	}
	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %q, want png", info.Format)
	}
	if info.Mode != "bgr" {
		t.Errorf("mode: got %q, want bgr", info.Mode)
	}
	if info.Resized {
		t.Error("small image should not be marked resized")
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New(nil)

	params := map[string]interface{}{
		"name": "image_load",
		"arguments": map[string]interface{}{
			"path": "/nonexistent/image.png",
		},
	}
	paramsJSON, _ := json.Marshal(params)

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  paramsJSON,
	}

	resp := s.handleToolsCall(req)

	if resp.Error == nil {
		t.Fatal("expected error for non-existent file")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := New(nil)

	params := map[string]interface{}{
		"name":      "nonexistent_tool",
		"arguments": map[string]interface{}{},
	}
	paramsJSON, _ := json.Marshal(params)

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  paramsJSON,
	}

	resp := s.handleToolsCall(req)

	if resp.Error == nil {
		t.Fatal("expected error for unknown tool")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(nil)

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`invalid json`),
	}

	resp := s.handleToolsCall(req)

	if resp.Error == nil {
		t.Fatal("expected error for invalid JSON params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestExecuteTool_ImageDimensions(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 200, 150, solid(color.RGBA{0, 255, 0, 255}))

	result, err := s.executeTool("image_dimensions", mustArgs(t, map[string]interface{}{"path": imgPath}))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}

	dims, ok := result.(map[string]int)
	if !ok {
		t.Fatalf("result type: got %T, want map[string]int", result)
	}
	if dims["width"] != 200 || dims["height"] != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", dims["width"], dims["height"])
	}
}

func TestExecuteTool_ImageList(t *testing.T) {
	s := New(nil)

	result, err := s.executeTool("image_list", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}
	if count := result.(map[string]interface{})["count"].(int); count != 0 {
		t.Errorf("fresh store count: got %d, want 0", count)
	}

	a := createTestImageFile(t, 10, 10, solid(color.RGBA{1, 2, 3, 255}))
	b := createTestImageFile(t, 20, 20, solid(color.RGBA{4, 5, 6, 255}))
	for _, p := range []string{a, b} {
		if _, err := s.executeTool("image_load", mustArgs(t, map[string]interface{}{"path": p})); err != nil {
			t.Fatalf("image_load failed: %v", err)
		}
	}

	result, err = s.executeTool("image_list", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}
	if count := result.(map[string]interface{})["count"].(int); count != 2 {
		t.Errorf("count after two loads: got %d, want 2", count)
	}
}

func mustArgs(t *testing.T, args map[string]interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}
	return data
}

func TestExecuteTool_Grayscale(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 60, 40, gradient)

	result, err := s.executeTool("image_grayscale", mustArgs(t, map[string]interface{}{"path": imgPath}))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}

	payload, ok := result.(*imageResult)
	if !ok {
		t.Fatalf("result type: got %T, want *imageResult", result)
	}
	if payload.Width != 60 || payload.Height != 40 {
		t.Errorf("dimensions: got %dx%d, want 60x40", payload.Width, payload.Height)
	}
	if payload.Mode != "gray" {
		t.Errorf("mode: got %q, want gray", payload.Mode)
	}
	if payload.MimeType != "image/png" {
		t.Errorf("mime type: got %q, want image/png", payload.MimeType)
	}
	if payload.ImageBase64 == "" {
		t.Error("payload should carry base64 image data")
	}
}

func TestExecuteTool_Transform(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 100, 80, gradient)

	tests := []struct {
		name       string
		args       map[string]interface{}
		wantWidth  int
		wantHeight int
	}{
		{
			"crop",
			map[string]interface{}{"path": imgPath, "operation": "crop", "x1": 10, "y1": 10, "x2": 50, "y2": 40},
			40, 30,
		},
		{
			"rotate 90",
			map[string]interface{}{"path": imgPath, "operation": "rotate", "angle": 90},
			80, 100,
		},
		{
			"rotate 180",
			map[string]interface{}{"path": imgPath, "operation": "rotate", "angle": 180},
			100, 80,
		},
		{
			"flip default horizontal",
			map[string]interface{}{"path": imgPath, "operation": "flip"},
			100, 80,
		},
		{
			"flip vertical",
			map[string]interface{}{"path": imgPath, "operation": "flip", "direction": "vertical"},
			100, 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.executeTool("image_transform", mustArgs(t, tt.args))
			if err != nil {
				t.Fatalf("executeTool failed: %v", err)
			}
			payload := result.(*imageResult)
			if payload.Width != tt.wantWidth || payload.Height != tt.wantHeight {
				t.Errorf("dimensions: got %dx%d, want %dx%d",
					payload.Width, payload.Height, tt.wantWidth, tt.wantHeight)
			}
		})
	}

	badCases := []struct {
		name string
		args map[string]interface{}
	}{
		{"unknown operation", map[string]interface{}{"path": imgPath, "operation": "shear"}},
		{"bad angle", map[string]interface{}{"path": imgPath, "operation": "rotate", "angle": 45}},
		{"inverted crop", map[string]interface{}{"path": imgPath, "operation": "crop", "x1": 50, "y1": 10, "x2": 10, "y2": 40}},
		{"crop outside bounds", map[string]interface{}{"path": imgPath, "operation": "crop", "x1": 0, "y1": 0, "x2": 500, "y2": 40}},
	}
	for _, tt := range badCases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.executeTool("image_transform", mustArgs(t, tt.args)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestExecuteTool_Histogram(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 50, 50, gradient)

	result, err := s.executeTool("image_histogram", mustArgs(t, map[string]interface{}{"path": imgPath}))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}

	m := result.(map[string]interface{})
	if bins := m["bins"].(int); bins != 256 {
		t.Errorf("bins: got %d, want 256", bins)
	}
	channels := m["channels"].(histogram.Histogram)
	if len(channels) != 3 {
		t.Errorf("channel count: got %d, want 3 for a color image", len(channels))
	}
	summaries := m["summaries"].([]histogram.ChannelSummary)
	if len(summaries) != 3 {
		t.Errorf("summary count: got %d, want 3", len(summaries))
	}
}

func TestExecuteTool_Statistics(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 50, 50, solid(color.RGBA{100, 100, 100, 255}))

	result, err := s.executeTool("image_statistics", mustArgs(t, map[string]interface{}{"path": imgPath}))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}

	m := result.(map[string]interface{})
	if m["mode"] != "bgr" {
		t.Errorf("mode: got %v, want bgr", m["mode"])
	}
	stats := m["statistics"].(map[string]histogram.ChannelStats)
	if len(stats) != 3 {
		t.Fatalf("statistics channels: got %d, want 3", len(stats))
	}
	for name, st := range stats {
		if st.Mean != 100 {
			t.Errorf("%s mean: got %v, want 100 for a solid image", name, st.Mean)
		}
		if st.Std != 0 {
			t.Errorf("%s std: got %v, want 0 for a solid image", name, st.Std)
		}
	}
}

func TestExecuteTool_HistogramEqualize(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 64, 64, gradient)

	for _, method := range []string{"global", "clahe"} {
		t.Run(method, func(t *testing.T) {
			result, err := s.executeTool("histogram_equalize", mustArgs(t, map[string]interface{}{
				"path":   imgPath,
				"method": method,
			}))
			if err != nil {
				t.Fatalf("executeTool failed: %v", err)
			}
			payload := result.(*imageResult)
			if payload.Width != 64 || payload.Height != 64 {
				t.Errorf("dimensions changed: %dx%d", payload.Width, payload.Height)
			}
		})
	}

	t.Run("unknown method", func(t *testing.T) {
		_, err := s.executeTool("histogram_equalize", mustArgs(t, map[string]interface{}{
			"path":   imgPath,
			"method": "adaptive",
		}))
		var unsupported *raster.UnsupportedOperationError
		if !errors.As(err, &unsupported) {
			t.Fatalf("err = %v, want UnsupportedOperationError", err)
		}
	})
}

func TestExecuteTool_ContrastStretch(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 64, 64, gradient)

	if _, err := s.executeTool("contrast_stretch", mustArgs(t, map[string]interface{}{"path": imgPath})); err != nil {
		t.Fatalf("executeTool with defaults failed: %v", err)
	}

	_, err := s.executeTool("contrast_stretch", mustArgs(t, map[string]interface{}{
		"path": imgPath,
		"low":  60.0,
		"high": 40.0,
	}))
	var invalid *raster.InvalidParameterError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidParameterError for low above high", err)
	}
}

func TestExecuteTool_FilterApply(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 64, 64, gradient)

	result, err := s.executeTool("filter_apply", mustArgs(t, map[string]interface{}{
		"path":        imgPath,
		"filter_type": "blur",
	}))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}
	m := result.(map[string]interface{})
	if m["filter_type"] != "blur" {
		t.Errorf("filter_type: got %v, want blur", m["filter_type"])
	}
	payload := m["result"].(*imageResult)
	if payload.Width != 64 || payload.Height != 64 {
		t.Errorf("dimensions changed: %dx%d", payload.Width, payload.Height)
	}
}

func TestExecuteTool_FilterApply_EvenKernelRejected(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 32, 32, gradient)

	_, err := s.executeTool("filter_apply", mustArgs(t, map[string]interface{}{
		"path":        imgPath,
		"filter_type": "blur",
		"params":      map[string]interface{}{"kernel_size": 4},
	}))
	var invalid *raster.InvalidParameterError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidParameterError", err)
	}
	if invalid.Param != "kernel_size" {
		t.Errorf("Param: got %q, want kernel_size", invalid.Param)
	}
}

func TestExecuteTool_FilterApply_UnknownFilter(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 32, 32, gradient)

	_, err := s.executeTool("filter_apply", mustArgs(t, map[string]interface{}{
		"path":        imgPath,
		"filter_type": "prewitt",
	}))
	var unsupported *raster.UnsupportedOperationError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedOperationError", err)
	}
}

func TestExecuteTool_FilterApply_CachesResults(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 48, 48, gradient)
	args := mustArgs(t, map[string]interface{}{
		"path":        imgPath,
		"filter_type": "median",
		"params":      map[string]interface{}{"kernel_size": 3},
	})

	first, err := s.executeTool("filter_apply", args)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if s.results.Len() != 1 {
		t.Fatalf("cache length after first call: got %d, want 1", s.results.Len())
	}

	second, err := s.executeTool("filter_apply", args)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if _, ok := second.(json.RawMessage); !ok {
		t.Fatalf("second result type: got %T, want json.RawMessage from the cache", second)
	}
	if mustMarshalJSON(first) != mustMarshalJSON(second) {
		t.Error("cached result diverged from the computed result")
	}
}

func TestExecuteTool_FourierTransform(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 40, 30, gradient)

	result, err := s.executeTool("fourier_transform", mustArgs(t, map[string]interface{}{"path": imgPath}))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}
	m := result.(map[string]interface{})
	if m["log_scale"] != true {
		t.Errorf("log_scale default: got %v, want true", m["log_scale"])
	}
	for _, key := range []string{"magnitude_spectrum", "phase_spectrum"} {
		payload, ok := m[key].(*imageResult)
		if !ok {
			t.Fatalf("%s: got %T, want *imageResult", key, m[key])
		}
		if payload.Width != 40 || payload.Height != 30 {
			t.Errorf("%s dimensions: got %dx%d, want 40x30", key, payload.Width, payload.Height)
		}
		if payload.Mode != "gray" {
			t.Errorf("%s mode: got %q, want gray", key, payload.Mode)
		}
	}

	result, err = s.executeTool("fourier_transform", mustArgs(t, map[string]interface{}{
		"path":      imgPath,
		"log_scale": false,
	}))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}
	if got := result.(map[string]interface{})["log_scale"]; got != false {
		t.Errorf("log_scale override: got %v, want false", got)
	}
}

func TestExecuteTool_FourierInverse(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 32, 32, gradient)

	result, err := s.executeTool("fourier_inverse", mustArgs(t, map[string]interface{}{"path": imgPath}))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}
	payload := result.(map[string]interface{})["reconstructed_image"].(*imageResult)
	if payload.Width != 32 || payload.Height != 32 {
		t.Errorf("dimensions: got %dx%d, want 32x32", payload.Width, payload.Height)
	}
}

func TestExecuteTool_FrequencyFilter(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 40, 40, gradient)

	result, err := s.executeTool("frequency_filter", mustArgs(t, map[string]interface{}{"path": imgPath}))
	if err != nil {
		t.Fatalf("executeTool with defaults failed: %v", err)
	}
	m := result.(map[string]interface{})
	if m["filter_type"] != "lowpass" || m["filter_method"] != "gaussian" {
		t.Errorf("defaults: got %v/%v, want lowpass/gaussian", m["filter_type"], m["filter_method"])
	}
	for _, key := range []string{"result_image", "filter_mask"} {
		payload, ok := m[key].(*imageResult)
		if !ok {
			t.Fatalf("%s: got %T, want *imageResult", key, m[key])
		}
		if payload.Width != 40 || payload.Height != 40 {
			t.Errorf("%s dimensions: got %dx%d, want 40x40", key, payload.Width, payload.Height)
		}
	}

	t.Run("unknown method", func(t *testing.T) {
		_, err := s.executeTool("frequency_filter", mustArgs(t, map[string]interface{}{
			"path":          imgPath,
			"filter_method": "hamming",
		}))
		var unsupported *raster.UnsupportedOperationError
		if !errors.As(err, &unsupported) {
			t.Fatalf("err = %v, want UnsupportedOperationError", err)
		}
	})

	t.Run("cutoff out of range", func(t *testing.T) {
		_, err := s.executeTool("frequency_filter", mustArgs(t, map[string]interface{}{
			"path":   imgPath,
			"cutoff": 1.5,
		}))
		var invalid *raster.InvalidParameterError
		if !errors.As(err, &invalid) {
			t.Fatalf("err = %v, want InvalidParameterError", err)
		}
	})
}

func TestExecuteTool_HomomorphicFilter(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 40, 40, gradient)

	result, err := s.executeTool("homomorphic_filter", mustArgs(t, map[string]interface{}{"path": imgPath}))
	if err != nil {
		t.Fatalf("executeTool with defaults failed: %v", err)
	}
	m := result.(map[string]interface{})
	if m["gamma_low"] != 0.3 || m["gamma_high"] != 1.5 {
		t.Errorf("gamma defaults: got %v/%v, want 0.3/1.5", m["gamma_low"], m["gamma_high"])
	}
	payload := m["result_image"].(*imageResult)
	if payload.Width != 40 || payload.Height != 40 {
		t.Errorf("dimensions: got %dx%d, want 40x40", payload.Width, payload.Height)
	}

	_, err = s.executeTool("homomorphic_filter", mustArgs(t, map[string]interface{}{
		"path":   imgPath,
		"cutoff": -5.0,
	}))
	var invalid *raster.InvalidParameterError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidParameterError for negative cutoff", err)
	}
}

func TestExecuteTool_NoiseAdd(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 40, 40, solid(color.RGBA{128, 128, 128, 255}))

	args := mustArgs(t, map[string]interface{}{
		"path":       imgPath,
		"noise_type": "gaussian",
		"seed":       7,
	})
	first, err := s.executeTool("noise_add", args)
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}
	m := first.(map[string]interface{})
	if m["noise_type"] != "gaussian" {
		t.Errorf("noise_type: got %v, want gaussian", m["noise_type"])
	}
	if m["seed"].(int64) != 7 {
		t.Errorf("seed: got %v, want 7", m["seed"])
	}

	second, err := s.executeTool("noise_add", args)
	if err != nil {
		t.Fatalf("second executeTool failed: %v", err)
	}
	a := m["result_image"].(*imageResult).ImageBase64
	b := second.(map[string]interface{})["result_image"].(*imageResult).ImageBase64
	if a != b {
		t.Error("same seed should reproduce the same corruption")
	}

	_, err = s.executeTool("noise_add", mustArgs(t, map[string]interface{}{
		"path":       imgPath,
		"noise_type": "perlin",
	}))
	var unsupported *raster.UnsupportedOperationError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedOperationError", err)
	}
}

func TestExecuteTool_NoiseRemove(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 40, 40, gradient)

	// Default method is median.
	result, err := s.executeTool("noise_remove", mustArgs(t, map[string]interface{}{"path": imgPath}))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}
	m := result.(map[string]interface{})
	if m["method"] != "median" {
		t.Errorf("method default: got %v, want median", m["method"])
	}

	result, err = s.executeTool("noise_remove", mustArgs(t, map[string]interface{}{
		"path":   imgPath,
		"method": "wiener",
	}))
	if err != nil {
		t.Fatalf("wiener failed: %v", err)
	}
	payload := result.(map[string]interface{})["result_image"].(*imageResult)
	if payload.Width != 40 || payload.Height != 40 {
		t.Errorf("dimensions: got %dx%d, want 40x40", payload.Width, payload.Height)
	}

	_, err = s.executeTool("noise_remove", mustArgs(t, map[string]interface{}{
		"path":   imgPath,
		"method": "anisotropic",
	}))
	var unsupported *raster.UnsupportedOperationError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedOperationError", err)
	}
}

func TestExecuteTool_NoiseEstimate(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 50, 50, solid(color.RGBA{90, 90, 90, 255}))

	result, err := s.executeTool("noise_estimate", mustArgs(t, map[string]interface{}{"path": imgPath}))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}
	m := result.(map[string]interface{})
	if m["method"] != "mad" {
		t.Errorf("method default: got %v, want mad", m["method"])
	}
	if level := m["noise_level"].(float64); level != 0 {
		t.Errorf("noise level of a flat image: got %v, want 0", level)
	}

	_, err = s.executeTool("noise_estimate", mustArgs(t, map[string]interface{}{
		"path":   imgPath,
		"method": "fft",
	}))
	var unsupported *raster.UnsupportedOperationError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedOperationError", err)
	}
}

func TestExecuteTool_DenoiseCompare(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 48, 48, solid(color.RGBA{50, 50, 50, 255}))

	result, err := s.executeTool("denoise_compare", mustArgs(t, map[string]interface{}{
		"path":    imgPath,
		"methods": []string{"median", "gaussian"},
	}))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}
	results := result.(map[string]interface{})["results"].(map[string]denoiseCompareEntry)
	if len(results) != 2 {
		t.Fatalf("result count: got %d, want 2", len(results))
	}
	for method, entry := range results {
		if entry.Error != "" {
			t.Errorf("%s failed: %s", method, entry.Error)
			continue
		}
		if entry.Image == nil {
			t.Errorf("%s: missing result image", method)
		}
		// Both methods leave a flat image untouched.
		if entry.MSE != 0 {
			t.Errorf("%s MSE on a flat image: got %v, want 0", method, entry.MSE)
		}
		if entry.PSNR < 100 {
			t.Errorf("%s PSNR: got %v, want above 100", method, entry.PSNR)
		}
	}

	// Unknown method names are skipped rather than failing the batch.
	result, err = s.executeTool("denoise_compare", mustArgs(t, map[string]interface{}{
		"path":    imgPath,
		"methods": []string{"median", "bogus"},
	}))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}
	results = result.(map[string]interface{})["results"].(map[string]denoiseCompareEntry)
	if len(results) != 1 {
		t.Errorf("result count with one bogus method: got %d, want 1", len(results))
	}
}

func TestExecuteTool_CatalogList(t *testing.T) {
	s := New(nil)

	result, err := s.executeTool("catalog_list", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}
	m := result.(map[string]interface{})

	filters := m["filters"].(map[string]catalogEntry)
	if len(filters) != 13 {
		t.Errorf("filter count: got %d, want 13", len(filters))
	}
	noiseTypes := m["noise_types"].(map[string]catalogEntry)
	if len(noiseTypes) != 5 {
		t.Errorf("noise type count: got %d, want 5", len(noiseTypes))
	}
	denoiseMethods := m["denoise_methods"].(map[string]catalogEntry)
	if len(denoiseMethods) != 6 {
		t.Errorf("denoise method count: got %d, want 6", len(denoiseMethods))
	}
	estimators := m["noise_estimators"].([]string)
	if len(estimators) != 3 {
		t.Errorf("estimator count: got %d, want 3", len(estimators))
	}

	// Every advertised filter must carry a display name.
	for key, entry := range filters {
		if entry.Name == "" {
			t.Errorf("filter %s has no display name", key)
		}
	}
}

func TestExecuteTool_AllTools(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 40, 40, gradient)

	// Test each tool to ensure executeTool correctly dispatches
	toolTests := []struct {
		name string
		args map[string]interface{}
	}{
		{"image_load", map[string]interface{}{"path": imgPath}},
		{"image_dimensions", map[string]interface{}{"path": imgPath}},
		{"image_list", map[string]interface{}{}},
		{"image_grayscale", map[string]interface{}{"path": imgPath}},
		{"image_transform", map[string]interface{}{"path": imgPath, "operation": "crop", "x1": 0, "y1": 0, "x2": 20, "y2": 20}},
		{"image_histogram", map[string]interface{}{"path": imgPath}},
		{"image_statistics", map[string]interface{}{"path": imgPath}},
		{"histogram_equalize", map[string]interface{}{"path": imgPath}},
		{"contrast_stretch", map[string]interface{}{"path": imgPath}},
		{"filter_apply", map[string]interface{}{"path": imgPath, "filter_type": "blur"}},
		{"fourier_transform", map[string]interface{}{"path": imgPath}},
		{"fourier_inverse", map[string]interface{}{"path": imgPath}},
		{"frequency_filter", map[string]interface{}{"path": imgPath}},
		{"homomorphic_filter", map[string]interface{}{"path": imgPath}},
		{"noise_add", map[string]interface{}{"path": imgPath, "noise_type": "salt_pepper", "seed": 1}},
		{"noise_remove", map[string]interface{}{"path": imgPath}},
		{"noise_estimate", map[string]interface{}{"path": imgPath}},
		{"denoise_compare", map[string]interface{}{"path": imgPath, "methods": []string{"median", "wiener"}}},
		{"catalog_list", map[string]interface{}{}},
	}

	covered := make(map[string]bool, len(toolTests))
	for _, tt := range toolTests {
		covered[tt.name] = true
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.executeTool(tt.name, mustArgs(t, tt.args))
			if err != nil {
				t.Fatalf("executeTool(%s) failed: %v", tt.name, err)
			}
			if result == nil {
				t.Errorf("executeTool(%s) returned nil result", tt.name)
			}
		})
	}

	// The sweep must not silently fall behind the tool list.
	for _, tool := range GetToolDefinitions() {
		if !covered[tool.Name] {
			t.Errorf("tool %s is not covered by the dispatch sweep", tool.Name)
		}
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New(nil)

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New(nil)

	_, err := s.executeTool("image_load", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}

func TestRequireOddKernel(t *testing.T) {
	tests := []struct {
		name    string
		params  string
		wantErr bool
	}{
		{"no params", "", false},
		{"odd kernel", `{"kernel_size": 5}`, false},
		{"even kernel", `{"kernel_size": 4}`, true},
		{"kernel absent", `{"sigma": 2.0}`, false},
		{"non-object params", `"blur"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw json.RawMessage
			if tt.params != "" {
				raw = json.RawMessage(tt.params)
			}
			err := requireOddKernel(raw)
			if tt.wantErr {
				var invalid *raster.InvalidParameterError
				if !errors.As(err, &invalid) {
					t.Fatalf("err = %v, want InvalidParameterError", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
