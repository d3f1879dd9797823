package syllable

import (
	"fmt"

	"github.com/RyanBlaney/sonido-syllable/logging"
	"github.com/RyanBlaney/sonido-syllable/syllable/config"
	"github.com/RyanBlaney/sonido-syllable/transcode"
)

// Segmenter splits a waveform into pseudosyllable regions. Implementations hold no
// per-call state and may be shared between goroutines. Generate never fails: input it
// cannot segment yields an empty list.
type Segmenter interface {
	Generate(audio *transcode.AudioData) []Region
	Name() string
}

// NewSegmenter creates the segmenter named by cfg.Algorithm
func NewSegmenter(cfg *config.SegmenterConfig) (Segmenter, error) {
	if cfg == nil {
		cfg = config.DefaultSegmenterConfig()
	}

	logger := logging.WithFields(logging.Fields{
		"component": "segmenter_factory",
		"function":  "NewSegmenter",
		"algorithm": cfg.Algorithm,
	})

	switch cfg.Algorithm {
	case config.AlgorithmEM:
		logger.Debug("Creating EM segmenter")
		return NewEMSegmenter(cfg.EM), nil

	case config.AlgorithmEnvelope:
		logger.Debug("Creating envelope segmenter")
		return NewEnvelopeSegmenter(cfg.Envelope), nil

	default:
		return nil, fmt.Errorf("unknown segmentation algorithm %q", cfg.Algorithm)
	}
}
