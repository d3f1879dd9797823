package syllable

import (
	"math"

	"github.com/RyanBlaney/sonido-syllable/algorithms/common"
	"github.com/RyanBlaney/sonido-syllable/algorithms/filters"
	"github.com/RyanBlaney/sonido-syllable/algorithms/temporal"
	"github.com/RyanBlaney/sonido-syllable/logging"
	"github.com/RyanBlaney/sonido-syllable/syllable/config"
	"github.com/RyanBlaney/sonido-syllable/transcode"
)

// EnvelopeSegmenter places boundaries at energy onsets of a band-limited envelope,
// keeping onsets that look like the start of a sonorant nucleus.
type EnvelopeSegmenter struct {
	config config.EnvelopeConfig
	logger logging.Logger
}

// candidate is one onset run with its scores
type candidate struct {
	run      temporal.OnsetRun
	boundary float64 // onset strength
	combined float64 // sonority × vowel onset
}

// NewEnvelopeSegmenter creates an envelope segmenter
func NewEnvelopeSegmenter(cfg config.EnvelopeConfig) *EnvelopeSegmenter {
	return &EnvelopeSegmenter{
		config: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "envelope_segmenter",
		}),
	}
}

// Name returns "envelope"
func (s *EnvelopeSegmenter) Name() string {
	return string(config.AlgorithmEnvelope)
}

// Generate segments the first channel of audio
func (s *EnvelopeSegmenter) Generate(audio *transcode.AudioData) []Region {
	logger := s.logger.WithFields(logging.Fields{
		"function": "Generate",
	})

	duration := audio.Duration()
	if duration <= 0 {
		logger.Debug("Empty waveform, nothing to segment")
		return []Region{}
	}

	sampleRate := audio.SampleRate
	if sampleRate != s.config.ReferenceRate {
		logger.Warn("Sample rate differs from the rate the envelope scores were tuned for, results are degraded", logging.Fields{
			"sample_rate":    sampleRate,
			"reference_rate": s.config.ReferenceRate,
		})
	}

	bank, ok := filters.BankForRate(sampleRate)
	if !ok {
		logger.Warn("No filter table for sample rate, using the reference table", logging.Fields{
			"sample_rate":     sampleRate,
			"table_rate":      bank.SampleRate,
			"supported_rates": filters.SupportedRates(),
		})
	}

	signal := audio.Channel(0)
	if len(signal) <= bank.MaxOrder() {
		logger.Debug("Waveform shorter than the filter order", logging.Fields{
			"samples": len(signal),
			"order":   bank.MaxOrder(),
		})
		return []Region{}
	}

	bands := temporal.NewEnvelope(bank, s.config.FrameRate, s.config.Compression).Compute(signal, sampleRate)
	if len(bands.Mid) < 2 {
		return []Region{}
	}

	velocity := temporal.OnsetVelocity(bands.Mid)
	candidates := s.score(temporal.DetectOnsetRuns(velocity), velocity, bands.Normalized())
	suppressed := s.suppress(candidates)

	frameRate := float64(s.config.FrameRate)
	boundaries := make([]float64, 0, len(candidates)+1)
	for i, c := range candidates {
		if c.boundary > 0 && suppressed[i] > 0 {
			boundaries = append(boundaries, float64(c.run.Start)/frameRate)
		}
	}
	boundaries = append(boundaries, duration)

	regions := s.dropSilent(RegionsFromBoundaries(boundaries), bands.Mid)

	logger.Debug("Envelope segmentation complete", logging.Fields{
		"frames":     len(bands.Mid),
		"onset_runs": len(candidates),
		"boundaries": len(boundaries) - 1,
		"regions":    len(regions),
	})

	return regions
}

// score rates every onset run. The boundary score comes from the peak velocity; the
// combined score multiplies sonority (normalized envelope at the end of the run) with
// the vowel onset score (peak velocity on a wider range).
func (s *EnvelopeSegmenter) score(runs []temporal.OnsetRun, velocity, normalized []float64) []candidate {
	candidates := make([]candidate, len(runs))
	for i, run := range runs {
		peak := velocity[run.Peak]

		sonority := 0.0
		if run.End < len(normalized) {
			sonority = common.ScoreRange(normalized[run.End], s.config.SonorityLow, s.config.SonorityHigh)
		}
		vowel := common.ScoreRange(peak, s.config.VowelLow, s.config.VowelHigh)

		candidates[i] = candidate{
			run:      run,
			boundary: common.ScoreRange(peak, s.config.BoundaryLow, s.config.BoundaryHigh),
			combined: sonority * vowel,
		}
	}
	return candidates
}

// suppress adds to each combined score the scores of other runs whose peaks lie within
// the suppression window, weighted by a triangular kernel that is -1 at distance 0 and
// reaches 0 at the window edge. Weak peaks next to a strong one end up non-positive.
func (s *EnvelopeSegmenter) suppress(candidates []candidate) []float64 {
	window := float64(s.config.SuppressionWindow)
	out := make([]float64, len(candidates))

	for i, c := range candidates {
		out[i] = c.combined
		if window <= 0 {
			continue
		}
		for j, other := range candidates {
			if j == i {
				continue
			}
			d := math.Abs(float64(c.run.Peak - other.run.Peak))
			if d < window {
				out[i] += other.combined * -(1 - d/window)
			}
		}
	}
	return out
}

// dropSilent keeps the regions whose mean mid-band envelope exceeds SilenceRatio times
// the loudest region's mean.
func (s *EnvelopeSegmenter) dropSilent(regions []Region, mid []float64) []Region {
	if len(regions) == 0 {
		return regions
	}

	frameRate := float64(s.config.FrameRate)
	means := make([]float64, len(regions))
	loudest := 0.0
	for i, r := range regions {
		start := int(math.Round(r.Start * frameRate))
		end := int(math.Round(r.End * frameRate))
		means[i] = common.RangeMean(mid, start, end)
		loudest = math.Max(loudest, means[i])
	}

	kept := make([]Region, 0, len(regions))
	for i, r := range regions {
		if means[i] > s.config.SilenceRatio*loudest {
			kept = append(kept, r)
		}
	}
	return kept
}
