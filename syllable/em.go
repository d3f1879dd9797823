package syllable

import (
	"math"

	"github.com/RyanBlaney/sonido-syllable/algorithms/filters"
	"github.com/RyanBlaney/sonido-syllable/algorithms/stats"
	"github.com/RyanBlaney/sonido-syllable/algorithms/temporal"
	"github.com/RyanBlaney/sonido-syllable/logging"
	"github.com/RyanBlaney/sonido-syllable/syllable/config"
	"github.com/RyanBlaney/sonido-syllable/transcode"
)

// EMSegmenter fits a 1-D Gaussian mixture over time to an energy-weighted intensity
// contour. Each surviving non-silent component becomes one region, bounded by the
// intersections with its neighbours.
type EMSegmenter struct {
	config    config.EMConfig
	extractor temporal.ContourExtractor
	logger    logging.Logger
}

// NewEMSegmenter creates an EM segmenter that extracts its own intensity contour
func NewEMSegmenter(cfg config.EMConfig) *EMSegmenter {
	extractor := temporal.NewIntensityExtractor()
	extractor.WindowSize = cfg.IntensityWindow
	extractor.Step = cfg.IntensityStep
	return NewEMSegmenterWithExtractor(cfg, extractor)
}

// NewEMSegmenterWithExtractor creates an EM segmenter fed by extractor
func NewEMSegmenterWithExtractor(cfg config.EMConfig, extractor temporal.ContourExtractor) *EMSegmenter {
	return &EMSegmenter{
		config:    cfg,
		extractor: extractor,
		logger: logging.WithFields(logging.Fields{
			"component": "em_segmenter",
		}),
	}
}

// Name returns "em"
func (s *EMSegmenter) Name() string {
	return string(config.AlgorithmEM)
}

// Generate segments the first channel of audio
func (s *EMSegmenter) Generate(audio *transcode.AudioData) []Region {
	logger := s.logger.WithFields(logging.Fields{
		"function": "Generate",
	})

	duration := audio.Duration()
	if duration <= 0 {
		logger.Debug("Empty waveform, nothing to segment")
		return []Region{}
	}

	mixture := s.fit(audio, duration, logger)
	if mixture == nil {
		return []Region{}
	}

	regions := s.regions(mixture, duration)

	logger.Debug("EM segmentation complete", logging.Fields{
		"components": mixture.Len(),
		"regions":    len(regions),
	})

	return regions
}

// fit runs the mixture stages on the energy contour of audio: seeding, EM, pruning and
// silence marking. It returns nil when the contour has no content.
func (s *EMSegmenter) fit(audio *transcode.AudioData, duration float64, logger logging.Logger) *stats.Mixture {
	signal := filters.RemoveDC(audio.Channel(0), audio.SampleRate, s.config.DCCutoff)
	contour := s.extractor.Compute(signal, audio.SampleRate)
	energy := contour.Map(s.energy)

	points := energy.Points()
	if len(points) == 0 {
		logger.Debug("Intensity contour has no content")
		return nil
	}

	xs := make([]float64, len(points))
	ws := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Time
		ws[i] = p.Value
	}

	mixture := stats.NewMixture(
		stats.SeedComponents(duration, s.config.SeedSpacing, s.config.SeedStdDev),
		stats.MixtureParams{
			Tolerance:     s.config.Tolerance,
			MaxIterations: s.config.MaxIterations,
			VarianceFloor: s.config.VarianceFloor,
		},
	)
	seeded := mixture.Len()

	result := mixture.Fit(xs, ws)
	if !result.Converged {
		logger.Debug("EM stopped at iteration bound, using best-effort mixture", logging.Fields{
			"iterations":     result.Iterations,
			"log_likelihood": result.LogLikelihood,
		})
	}

	pruned := mixture.Prune(s.config.OverlapMargin)
	silent := mixture.MarkSilence(s.config.SilenceRatio)

	logger.Debug("Mixture fitted", logging.Fields{
		"samples":    len(points),
		"seeded":     seeded,
		"iterations": result.Iterations,
		"pruned":     pruned,
		"silent":     silent,
	})

	return mixture
}

// energy emphasizes loud frames: (intensity / divisor) ^ exponent. Non-positive
// intensities carry no energy.
func (s *EMSegmenter) energy(intensity float64) float64 {
	if intensity <= 0 {
		return 0
	}
	return math.Pow(intensity/s.config.EnergyDivisor, s.config.EnergyExponent)
}

// regions walks the mean-ordered components. The boundary between neighbours is their
// intersection (midpoint when undefined), clamped to the waveform and kept
// non-decreasing. The first region starts at 0 and the last ends at duration.
func (s *EMSegmenter) regions(mixture *stats.Mixture, duration float64) []Region {
	components := mixture.Components
	if len(components) == 0 {
		return []Region{}
	}

	boundaries := make([]float64, len(components)-1)
	for i := range boundaries {
		b := mixture.Boundary(components[i], components[i+1])
		b = math.Min(math.Max(b, 0), duration)
		if i > 0 {
			b = math.Max(b, boundaries[i-1])
		}
		boundaries[i] = b
	}

	regions := make([]Region, 0, len(components))
	for i, c := range components {
		if c.Silent {
			continue
		}

		start, end := 0.0, duration
		if i > 0 {
			start = boundaries[i-1]
		}
		if i < len(boundaries) {
			end = boundaries[i]
		}
		if end > start {
			regions = append(regions, Region{Start: start, End: end})
		}
	}

	return regions
}
