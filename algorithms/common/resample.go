package common

// Decimate keeps every factor-th sample starting at index 0, producing
// len(signal)/factor samples. No anti-alias filter is applied here; callers smooth
// beforehand. A factor of 1 or less returns a copy.
func Decimate(signal []float64, factor int) []float64 {
	if factor <= 1 {
		out := make([]float64, len(signal))
		copy(out, signal)
		return out
	}

	downsampled := make([]float64, len(signal)/factor)
	for i := range downsampled {
		downsampled[i] = signal[i*factor]
	}

	return downsampled
}
