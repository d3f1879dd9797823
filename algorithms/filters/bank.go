package filters

import (
	"slices"
)

// ReferenceRate is the sample rate the envelope segmenter was tuned at
const ReferenceRate = 16000

// Design constants of the fixed filter bank. The tables below are built from them once
// per supported rate and never change afterwards.
const (
	highPassCutoff  = 150.0  // equal-loudness low cut, Hz
	narrowCutoff    = 1000.0 // narrow-band low-pass, Hz
	smoothingCutoff = 20.0   // envelope smoothing, Hz
)

// shapingSection describes one biquad of the spectral-shaping cascade
type shapingSection struct {
	kind   string
	freq   float64
	q      float64
	gainDB float64
}

// The shaping cascade approximates an inverted equal-loudness contour: it cuts the
// low end, dips slightly around 800 Hz, lifts the 3 kHz ear-canal resonance and rolls
// off the top octave. Four biquads make an 8th-order filter.
var shapingSections = []shapingSection{
	{kind: "lowshelf", freq: 300, q: ButterworthQ, gainDB: -8},
	{kind: "peaking", freq: 800, q: 0.8, gainDB: -2},
	{kind: "peaking", freq: 3000, q: 1.0, gainDB: 6},
	{kind: "highshelf", freq: 6000, q: ButterworthQ, gainDB: -6},
}

// FilterBank is the fixed set of filters the envelope segmenter runs at one sample rate
type FilterBank struct {
	SampleRate int          `json:"sample_rate"`
	Shaping    Coefficients `json:"shaping"`    // 8th-order spectral shaping
	HighPass   Coefficients `json:"high_pass"`  // 150 Hz high-pass, yields the mid band
	LowPass    Coefficients `json:"low_pass"`   // 1000 Hz low-pass, yields the narrow band
	Smoothing  Coefficients `json:"smoothing"` // envelope smoother, applied zero-phase
}

// MaxOrder returns the highest order among the bank's filters
func (fb FilterBank) MaxOrder() int {
	return max(fb.Shaping.Order(), fb.HighPass.Order(), fb.LowPass.Order(), fb.Smoothing.Order())
}

var supportedRates = []int{8000, ReferenceRate, 32000, 44100, 48000}

var banks = buildBanks(supportedRates)

func buildBanks(rates []int) map[int]FilterBank {
	out := make(map[int]FilterBank, len(rates))
	for _, rate := range rates {
		out[rate] = designBank(rate)
	}
	return out
}

func designBank(rate int) FilterBank {
	sections := make([]Coefficients, 0, len(shapingSections))
	for _, s := range shapingSections {
		switch s.kind {
		case "lowshelf":
			sections = append(sections, LowShelf(rate, s.freq, s.q, s.gainDB))
		case "highshelf":
			sections = append(sections, HighShelf(rate, s.freq, s.q, s.gainDB))
		default:
			sections = append(sections, Peaking(rate, s.freq, s.q, s.gainDB))
		}
	}

	return FilterBank{
		SampleRate: rate,
		Shaping:    Cascade(sections...),
		HighPass:   HighPass(rate, highPassCutoff, ButterworthQ),
		LowPass:    LowPass(rate, narrowCutoff, ButterworthQ),
		Smoothing:  CriticallyDampedLowPass(rate, smoothingCutoff),
	}
}

// BankForRate returns the table for sampleRate. When the rate has no table it returns
// the reference-rate table and false; callers decide how loudly to complain.
func BankForRate(sampleRate int) (FilterBank, bool) {
	if bank, ok := banks[sampleRate]; ok {
		return bank, true
	}
	return banks[ReferenceRate], false
}

// SupportedRates lists the sample rates that have a filter table
func SupportedRates() []int {
	return slices.Clone(supportedRates)
}
