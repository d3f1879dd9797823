package filters

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FrequencyResponse returns |H| at the nfft/2+1 evenly spaced frequencies from DC to
// Nyquist, bin k sitting at k*sampleRate/nfft Hz. It evaluates the numerator and
// denominator polynomials with one FFT each. nfft is raised to the coefficient
// length when smaller.
func (c Coefficients) FrequencyResponse(nfft int) []float64 {
	n := max(nfft, len(c.B), len(c.A))
	if n == 0 {
		return []float64{}
	}

	num := fft.FFTReal(padded(c.B, n))
	den := fft.FFTReal(padded(c.A, n))

	magnitude := make([]float64, n/2+1)
	for k := range magnitude {
		d := cmplx.Abs(den[k])
		if d == 0 {
			continue
		}
		magnitude[k] = cmplx.Abs(num[k]) / d
	}
	return magnitude
}

// GainAt returns |H| at the bin of an nfft-point response closest to freq (Hz).
func (c Coefficients) GainAt(sampleRate int, freq float64, nfft int) float64 {
	response := c.FrequencyResponse(nfft)
	if len(response) == 0 {
		return 0
	}
	n := max(nfft, len(c.B), len(c.A))
	bin := int(freq*float64(n)/float64(sampleRate) + 0.5)
	bin = min(max(bin, 0), len(response)-1)
	return response[bin]
}

func padded(x []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, x)
	return out
}
