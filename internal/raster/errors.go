package raster

import "fmt"

// InvalidParameterError reports a numeric parameter that violates its
// documented constraint. The operation is rejected before any pixel work
// happens, so the input buffer is never touched.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

// InvalidParam builds an InvalidParameterError with a formatted reason.
func InvalidParam(param, format string, args ...interface{}) error {
	return &InvalidParameterError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedOperationError reports an operation identifier that no engine
// recognizes. It is produced at the decode boundary, before computation.
type UnsupportedOperationError struct {
	Kind string
	Name string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported %s %q", e.Kind, e.Name)
}

// ShapeMismatchError reports buffers or kernels whose dimensions are
// incompatible, such as magnitude and phase grids of different sizes or a
// ragged convolution kernel.
type ShapeMismatchError struct {
	Want string
	Got  string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: want %s, got %s", e.Want, e.Got)
}
