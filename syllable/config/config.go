package config

import (
	"fmt"
)

// Algorithm names a segmentation algorithm
type Algorithm string

const (
	AlgorithmEM       Algorithm = "em"
	AlgorithmEnvelope Algorithm = "envelope"
)

// SegmenterConfig selects a segmentation algorithm and carries the parameters of both
type SegmenterConfig struct {
	Algorithm Algorithm      `json:"algorithm" yaml:"algorithm" envconfig:"ALGORITHM"`
	EM        EMConfig       `json:"em" yaml:"em" envconfig:"EM"`
	Envelope  EnvelopeConfig `json:"envelope" yaml:"envelope" envconfig:"ENVELOPE"`
}

// EMConfig configures the Gaussian-mixture segmenter. Times are in seconds.
type EMConfig struct {
	// Pre-filter; 0 leaves any DC offset in place
	DCCutoff float64 `json:"dc_cutoff" yaml:"dc_cutoff" envconfig:"DC_CUTOFF"` // Hz

	// Intensity contour
	IntensityWindow float64 `json:"intensity_window" yaml:"intensity_window" envconfig:"INTENSITY_WINDOW"`
	IntensityStep   float64 `json:"intensity_step" yaml:"intensity_step" envconfig:"INTENSITY_STEP"`

	// energy = (intensity / EnergyDivisor) ^ EnergyExponent
	EnergyDivisor  float64 `json:"energy_divisor" yaml:"energy_divisor" envconfig:"ENERGY_DIVISOR"`
	EnergyExponent float64 `json:"energy_exponent" yaml:"energy_exponent" envconfig:"ENERGY_EXPONENT"`

	// Seeding
	SeedSpacing float64 `json:"seed_spacing" yaml:"seed_spacing" envconfig:"SEED_SPACING"`
	SeedStdDev  float64 `json:"seed_stddev" yaml:"seed_stddev" envconfig:"SEED_STDDEV"`

	// EM
	Tolerance     float64 `json:"tolerance" yaml:"tolerance" envconfig:"TOLERANCE"`
	MaxIterations int     `json:"max_iterations" yaml:"max_iterations" envconfig:"MAX_ITERATIONS"`
	VarianceFloor float64 `json:"variance_floor" yaml:"variance_floor" envconfig:"VARIANCE_FLOOR"`

	// Pruning and silence
	OverlapMargin float64 `json:"overlap_margin" yaml:"overlap_margin" envconfig:"OVERLAP_MARGIN"` // fraction of a std dev
	SilenceRatio  float64 `json:"silence_ratio" yaml:"silence_ratio" envconfig:"SILENCE_RATIO"`    // fraction of the largest mass
}

// EnvelopeConfig configures the envelope-based blind segmenter
type EnvelopeConfig struct {
	ReferenceRate int     `json:"reference_rate" yaml:"reference_rate" envconfig:"REFERENCE_RATE"` // rate the filter bank is tuned for
	FrameRate     int     `json:"frame_rate" yaml:"frame_rate" envconfig:"FRAME_RATE"`             // envelope rate after decimation
	Compression   float64 `json:"compression" yaml:"compression" envconfig:"COMPRESSION"`          // power-law exponent

	BoundaryLow  float64 `json:"boundary_low" yaml:"boundary_low" envconfig:"BOUNDARY_LOW"`
	BoundaryHigh float64 `json:"boundary_high" yaml:"boundary_high" envconfig:"BOUNDARY_HIGH"`
	SonorityLow  float64 `json:"sonority_low" yaml:"sonority_low" envconfig:"SONORITY_LOW"`
	SonorityHigh float64 `json:"sonority_high" yaml:"sonority_high" envconfig:"SONORITY_HIGH"`
	VowelLow     float64 `json:"vowel_low" yaml:"vowel_low" envconfig:"VOWEL_LOW"`
	VowelHigh    float64 `json:"vowel_high" yaml:"vowel_high" envconfig:"VOWEL_HIGH"`

	SuppressionWindow int     `json:"suppression_window" yaml:"suppression_window" envconfig:"SUPPRESSION_WINDOW"` // envelope samples
	SilenceRatio      float64 `json:"silence_ratio" yaml:"silence_ratio" envconfig:"SILENCE_RATIO"`
}

// DefaultSegmenterConfig returns the EM segmenter with default parameters for both
// algorithms
func DefaultSegmenterConfig() *SegmenterConfig {
	return &SegmenterConfig{
		Algorithm: AlgorithmEM,
		EM:        DefaultEMConfig(),
		Envelope:  DefaultEnvelopeConfig(),
	}
}

// DefaultEMConfig returns 100 ms seeds of 50 ms std dev over a 10 ms intensity contour
func DefaultEMConfig() EMConfig {
	return EMConfig{
		IntensityWindow: 0.025,
		IntensityStep:   0.01,
		EnergyDivisor:   10,
		EnergyExponent:  10,
		SeedSpacing:     0.1,
		SeedStdDev:      0.05,
		Tolerance:       1e-4,
		MaxIterations:   1000,
		VarianceFloor:   1e-6,
		OverlapMargin:   0.1,
		SilenceRatio:    0.01,
	}
}

// DefaultEnvelopeConfig returns the fixed scoring ranges tuned for 16 kHz speech
func DefaultEnvelopeConfig() EnvelopeConfig {
	return EnvelopeConfig{
		ReferenceRate:     16000,
		FrameRate:         100,
		Compression:       0.3,
		BoundaryLow:       0.01,
		BoundaryHigh:      0.1,
		SonorityLow:       0.3,
		SonorityHigh:      0.7,
		VowelLow:          0.001,
		VowelHigh:         0.1,
		SuppressionWindow: 10,
		SilenceRatio:      0.3,
	}
}

// Validate checks that every parameter is usable
func (c *SegmenterConfig) Validate() error {
	switch c.Algorithm {
	case AlgorithmEM, AlgorithmEnvelope:
	default:
		return fmt.Errorf("unknown algorithm %q", c.Algorithm)
	}
	if err := c.EM.Validate(); err != nil {
		return fmt.Errorf("em: %w", err)
	}
	if err := c.Envelope.Validate(); err != nil {
		return fmt.Errorf("envelope: %w", err)
	}
	return nil
}

// Validate checks the EM parameters
func (c *EMConfig) Validate() error {
	if c.DCCutoff < 0 {
		return fmt.Errorf("dc cutoff must not be negative: %g", c.DCCutoff)
	}
	if c.IntensityWindow <= 0 || c.IntensityStep <= 0 {
		return fmt.Errorf("intensity window and step must be positive")
	}
	if c.EnergyDivisor <= 0 {
		return fmt.Errorf("energy divisor must be positive: %g", c.EnergyDivisor)
	}
	if c.SeedSpacing <= 0 || c.SeedStdDev <= 0 {
		return fmt.Errorf("seed spacing and std dev must be positive")
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative: %g", c.Tolerance)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive: %d", c.MaxIterations)
	}
	if c.VarianceFloor <= 0 {
		return fmt.Errorf("variance floor must be positive: %g", c.VarianceFloor)
	}
	if c.OverlapMargin < 0 {
		return fmt.Errorf("overlap margin must not be negative: %g", c.OverlapMargin)
	}
	if c.SilenceRatio < 0 || c.SilenceRatio >= 1 {
		return fmt.Errorf("silence ratio must be in [0, 1): %g", c.SilenceRatio)
	}
	return nil
}

// Validate checks the envelope parameters
func (c *EnvelopeConfig) Validate() error {
	if c.ReferenceRate <= 0 {
		return fmt.Errorf("reference rate must be positive: %d", c.ReferenceRate)
	}
	if c.FrameRate <= 0 || c.FrameRate > c.ReferenceRate {
		return fmt.Errorf("frame rate must be in (0, %d]: %d", c.ReferenceRate, c.FrameRate)
	}
	if c.Compression <= 0 {
		return fmt.Errorf("compression exponent must be positive: %g", c.Compression)
	}
	ranges := []struct {
		name      string
		low, high float64
	}{
		{"boundary", c.BoundaryLow, c.BoundaryHigh},
		{"sonority", c.SonorityLow, c.SonorityHigh},
		{"vowel", c.VowelLow, c.VowelHigh},
	}
	for _, r := range ranges {
		if r.low > r.high {
			return fmt.Errorf("%s range is inverted: [%g, %g]", r.name, r.low, r.high)
		}
	}
	if c.SuppressionWindow < 0 {
		return fmt.Errorf("suppression window must not be negative: %d", c.SuppressionWindow)
	}
	if c.SilenceRatio < 0 || c.SilenceRatio >= 1 {
		return fmt.Errorf("silence ratio must be in [0, 1): %g", c.SilenceRatio)
	}
	return nil
}
