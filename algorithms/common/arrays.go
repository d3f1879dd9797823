package common

import (
	"math"
)

// FullWaveRectify returns |x| element-wise
func FullWaveRectify(signal []float64) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = math.Abs(v)
	}
	return out
}

// HalfWaveRectify clamps negative values to zero
func HalfWaveRectify(signal []float64) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		if v > 0 {
			out[i] = v
		}
	}
	return out
}

// Compress applies a power-law nonlinearity. Negative inputs are treated as zero so
// filter undershoot never produces NaN.
func Compress(signal []float64, exponent float64) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		if v > 0 {
			out[i] = math.Pow(v, exponent)
		}
	}
	return out
}

// SafeDivide divides num by den element-wise over the shorter length.
// A zero denominator yields zero.
func SafeDivide(num, den []float64) []float64 {
	n := min(len(num), len(den))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if den[i] != 0 {
			out[i] = num[i] / den[i]
		}
	}
	return out
}

// Diff returns the first difference aligned with the input: out[0] = 0 and
// out[i] = x[i] - x[i-1].
func Diff(signal []float64) []float64 {
	out := make([]float64, len(signal))
	for i := 1; i < len(signal); i++ {
		out[i] = signal[i] - signal[i-1]
	}
	return out
}

// Reverse returns a reversed copy of signal
func Reverse(signal []float64) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		out[len(signal)-1-i] = v
	}
	return out
}

// RangeMean averages signal[start:end], clipping the range to the slice bounds.
// Empty ranges average to zero.
func RangeMean(signal []float64, start, end int) float64 {
	start = max(start, 0)
	end = min(end, len(signal))
	if end <= start {
		return 0.0
	}
	return Mean(signal[start:end])
}
