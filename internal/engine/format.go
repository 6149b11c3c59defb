package engine

import (
	"errors"
	"math"
	"strconv"
)

// ErrorResult is the result text shown when an operand is not a number.
const ErrorResult = "Error"

// parseOperand parses operand text as a float64.
// Out-of-range values saturate to ±Inf or 0 instead of failing.
func parseOperand(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return v, nil
}

// FormatResult renders a computed value for display.
//
// Integral values print without a fractional part ("4", not "4.0").
// Everything else uses the shortest representation that reads back to the
// same float64, switching to exponent notation for very large or small
// magnitudes. Infinities and NaN print in a form parseOperand accepts, so
// a continued calculation can read them back.
func FormatResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		// covers -0
		return "0"
	case v == math.Trunc(v):
		return strconv.FormatFloat(v, 'f', 0, 64)
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
