package filters

import (
	"math"
)

// Biquad designs use the cookbook formulas from Robert Bristow-Johnson's
// "Cookbook formulae for audio EQ biquad filter coefficients"
// Reference: https://webaudio.github.io/Audio-EQ-Cookbook/audio-eq-cookbook.html
//
// Every design returns normalized second-order Coefficients (a0 == 1).

// ButterworthQ is the quality factor of a second-order Butterworth section
const ButterworthQ = 1.0 / math.Sqrt2

// biquadParams holds the intermediate cookbook quantities for one design
type biquadParams struct {
	cosW0 float64
	alpha float64
	gain  float64 // A = 10^(dBgain/40)
}

func newBiquadParams(sampleRate int, freq, q, gainDB float64) biquadParams {
	// Keep designs clear of Nyquist, where the cookbook formulas degenerate
	freq = math.Min(freq, 0.45*float64(sampleRate))

	w0 := 2.0 * math.Pi * freq / float64(sampleRate)
	return biquadParams{
		cosW0: math.Cos(w0),
		alpha: math.Sin(w0) / (2.0 * q),
		gain:  math.Pow(10, gainDB/40.0),
	}
}

// LowPass designs a second-order low-pass section with cutoff freq (Hz)
func LowPass(sampleRate int, freq, q float64) Coefficients {
	p := newBiquadParams(sampleRate, freq, q, 0)
	b := []float64{(1 - p.cosW0) / 2, 1 - p.cosW0, (1 - p.cosW0) / 2}
	a := []float64{1 + p.alpha, -2 * p.cosW0, 1 - p.alpha}
	return MustCoefficients(b, a)
}

// HighPass designs a second-order high-pass section with cutoff freq (Hz)
func HighPass(sampleRate int, freq, q float64) Coefficients {
	p := newBiquadParams(sampleRate, freq, q, 0)
	b := []float64{(1 + p.cosW0) / 2, -(1 + p.cosW0), (1 + p.cosW0) / 2}
	a := []float64{1 + p.alpha, -2 * p.cosW0, 1 - p.alpha}
	return MustCoefficients(b, a)
}

// Peaking designs a peaking EQ section centred on freq with the given boost/cut
func Peaking(sampleRate int, freq, q, gainDB float64) Coefficients {
	p := newBiquadParams(sampleRate, freq, q, gainDB)
	b := []float64{1 + p.alpha*p.gain, -2 * p.cosW0, 1 - p.alpha*p.gain}
	a := []float64{1 + p.alpha/p.gain, -2 * p.cosW0, 1 - p.alpha/p.gain}
	return MustCoefficients(b, a)
}

// LowShelf designs a low-shelf section with corner freq
func LowShelf(sampleRate int, freq, q, gainDB float64) Coefficients {
	p := newBiquadParams(sampleRate, freq, q, gainDB)
	A, c := p.gain, p.cosW0
	s := 2 * math.Sqrt(A) * p.alpha

	b := []float64{
		A * ((A + 1) - (A-1)*c + s),
		2 * A * ((A - 1) - (A+1)*c),
		A * ((A + 1) - (A-1)*c - s),
	}
	a := []float64{
		(A + 1) + (A-1)*c + s,
		-2 * ((A - 1) + (A+1)*c),
		(A + 1) + (A-1)*c - s,
	}
	return MustCoefficients(b, a)
}

// HighShelf designs a high-shelf section with corner freq
func HighShelf(sampleRate int, freq, q, gainDB float64) Coefficients {
	p := newBiquadParams(sampleRate, freq, q, gainDB)
	A, c := p.gain, p.cosW0
	s := 2 * math.Sqrt(A) * p.alpha

	b := []float64{
		A * ((A + 1) + (A-1)*c + s),
		-2 * A * ((A - 1) + (A+1)*c),
		A * ((A + 1) + (A-1)*c - s),
	}
	a := []float64{
		(A + 1) - (A-1)*c + s,
		2 * ((A - 1) - (A+1)*c),
		(A + 1) - (A-1)*c - s,
	}
	return MustCoefficients(b, a)
}

// CriticallyDampedLowPass designs a two-pole low-pass with both poles at
// r = exp(-2*pi*freq/fs). Its impulse response (n+1)(1-r)^2 r^n is non-negative and its
// DC gain is exactly one, so smoothing a rectified envelope never undershoots zero.
func CriticallyDampedLowPass(sampleRate int, freq float64) Coefficients {
	r := math.Exp(-2.0 * math.Pi * freq / float64(sampleRate))
	g := (1 - r) * (1 - r)
	return MustCoefficients([]float64{g, 0, 0}, []float64{1, -2 * r, r * r})
}

// Cascade multiplies the transfer functions of sections into a single higher-order
// filter. Filtering with the result equals filtering with each section in turn.
func Cascade(sections ...Coefficients) Coefficients {
	b, a := []float64{1}, []float64{1}
	for _, s := range sections {
		b = convolve(b, s.B)
		a = convolve(a, s.A)
	}
	return MustCoefficients(b, a)
}

// convolve returns the polynomial product of x and y
func convolve(x, y []float64) []float64 {
	if len(x) == 0 || len(y) == 0 {
		return []float64{}
	}
	out := make([]float64, len(x)+len(y)-1)
	for i, xv := range x {
		for j, yv := range y {
			out[i+j] += xv * yv
		}
	}
	return out
}
