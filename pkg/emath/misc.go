package emath

import "math"

// Some functions that only operate on basic types, that are useful

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/ - "linear RGB to sRGB"
// `f` is assumed to be in the range [0,1]
func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055 * math.Pow(f, 1.0/2.4) - 0.055
}

func Clamp01(f float64) float64 {
	if f < 0 || math.IsNaN(f) {
		return 0
	} else if f > 1 {
		return 1
	}
	return f
}

func ClampInt(i, min, max int) int {
	if i < min {
		return min
	} else if i > max {
		return max
	}
	return i
}

// Dist2 is the squared euclidean distance between two equal-length vectors.
func Dist2(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		d += (a[i] - b[i]) * (a[i] - b[i])
	}
	return d
}
