package score

import "math"

// Clamp01 bounds v to [0,1], mapping NaN to 0 so degenerate inputs cannot
// propagate through the pipeline.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}

// Sigmoid squashes an unbounded linear combination into (0,1).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Gaussian is a bounded bump centered on target with the given width.
// Returns 0 for non-positive widths.
func Gaussian(x, center, width float64) float64 {
	if width <= 0 {
		return 0
	}
	z := (x - center) / width
	return math.Exp(-z * z)
}

// Log10Safe is log10 that returns 0 for non-positive inputs.
func Log10Safe(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Log10(v)
}
