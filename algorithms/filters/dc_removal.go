package filters

import (
	"math"
)

// DC blocker: a first-order high-pass with a zero at DC and a pole just inside the
// unit circle,
//
//	y[n] = x[n] - x[n-1] + R*y[n-1]
//
// References:
//   - Julius O. Smith III, "Introduction to Digital Filters with Audio Applications"
//     https://ccrma.stanford.edu/~jos/filters/DC_Blocker.html

// DefaultDCPole is the pole used when no cutoff is given (about 8 Hz at 16 kHz)
const DefaultDCPole = 0.997

// DCPole returns the pole location R for a -3 dB cutoff of cutoffFreq Hz, using the
// small-angle approximation R = 1 - 2*pi*fc/fs. The result is clamped to [0.001, 0.999].
// Non-positive inputs give DefaultDCPole.
func DCPole(sampleRate int, cutoffFreq float64) float64 {
	if sampleRate <= 0 || cutoffFreq <= 0 {
		return DefaultDCPole
	}

	r := 1.0 - 2.0*math.Pi*cutoffFreq/float64(sampleRate)
	return math.Min(math.Max(r, 0.001), 0.999)
}

// DCBlocker designs the blocker for cutoffFreq at sampleRate
func DCBlocker(sampleRate int, cutoffFreq float64) Coefficients {
	r := DCPole(sampleRate, cutoffFreq)
	return MustCoefficients([]float64{1, -1}, []float64{1, -r})
}

// CutoffForPole inverts DCPole: fc = (1-R)*fs/(2*pi)
func CutoffForPole(sampleRate int, pole float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return (1.0 - pole) * float64(sampleRate) / (2.0 * math.Pi)
}

// RemoveDC runs signal through a DC blocker tuned to cutoffFreq. The filter starts
// from the steady state of the first sample, so a constant offset is removed from the
// first sample on instead of decaying away. A non-positive cutoff returns signal as is.
func RemoveDC(signal []float64, sampleRate int, cutoffFreq float64) []float64 {
	if cutoffFreq <= 0 || len(signal) == 0 {
		return signal
	}

	c := DCBlocker(sampleRate, cutoffFreq)
	// a step of height s settles with the delay line at -s, since the output is 0
	return FilterWithState(c, signal, []float64{-signal[0]})
}
