package temporal

import (
	"github.com/RyanBlaney/sonido-syllable/algorithms/common"
	"github.com/RyanBlaney/sonido-syllable/algorithms/filters"
)

// BandEnvelopes holds the two compressed energy envelopes the blind segmenter works on,
// both sampled at FrameRate Hz.
type BandEnvelopes struct {
	Mid       []float64 // shaped, high-passed band
	Narrow    []float64 // mid band further low-passed
	FrameRate int
}

// Normalized returns Narrow / Mid element-wise (zero where Mid is zero)
func (b BandEnvelopes) Normalized() []float64 {
	return common.SafeDivide(b.Narrow, b.Mid)
}

// Envelope extracts band-limited amplitude envelopes with a fixed filter bank
type Envelope struct {
	bank      filters.FilterBank
	frameRate int
	exponent  float64
}

// NewEnvelope creates an envelope extractor that decimates to frameRate Hz and
// compresses with the given power-law exponent.
func NewEnvelope(bank filters.FilterBank, frameRate int, exponent float64) *Envelope {
	return &Envelope{
		bank:      bank,
		frameRate: frameRate,
		exponent:  exponent,
	}
}

// Bands runs signal through the filter bank and returns the raw mid and narrow band
// signals (before rectification).
func (e *Envelope) Bands(signal []float64) (mid, narrow []float64) {
	shaped := filters.Filter(e.bank.Shaping, signal)
	mid = filters.Filter(e.bank.HighPass, shaped)
	narrow = filters.Filter(e.bank.LowPass, mid)
	return mid, narrow
}

// Smooth full-wave rectifies a band and smooths it with the bank's smoothing filter
// run zero-phase, so envelope timing matches across bands.
func (e *Envelope) Smooth(band []float64) []float64 {
	return filters.ZeroPhase(e.bank.Smoothing, common.FullWaveRectify(band))
}

// Compute returns both compressed envelopes of signal sampled at sampleRate.
func (e *Envelope) Compute(signal []float64, sampleRate int) BandEnvelopes {
	factor := max(sampleRate/e.frameRate, 1)

	mid, narrow := e.Bands(signal)
	midEnv := common.Decimate(e.Smooth(mid), factor)
	narrowEnv := common.Decimate(e.Smooth(narrow), factor)

	return BandEnvelopes{
		Mid:       common.Compress(midEnv, e.exponent),
		Narrow:    common.Compress(narrowEnv, e.exponent),
		FrameRate: e.frameRate,
	}
}
