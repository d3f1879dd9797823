package temporal

import (
	"math"

	"github.com/mjibson/go-dsp/window"
)

// ReferencePressure is the 0 dB reference (20 micropascal) for intensity in dB SPL
const ReferencePressure = 2e-5

// ContourExtractor turns a sampled signal into a contour
type ContourExtractor interface {
	Compute(signal []float64, sampleRate int) *Contour
}

// IntensityExtractor extracts a dB intensity contour from a sampled signal. Each frame is
// weighted with a Hann window; frames are centred every Step seconds starting half a
// window into the signal. Frames without any energy are left empty.
type IntensityExtractor struct {
	WindowSize float64 // seconds
	Step       float64 // seconds
	Reference  float64 // 0 dB amplitude
}

// NewIntensityExtractor creates an extractor with a 25 ms window and 10 ms step
func NewIntensityExtractor() *IntensityExtractor {
	return &IntensityExtractor{
		WindowSize: 0.025,
		Step:       0.01,
		Reference:  ReferencePressure,
	}
}

// Compute returns the intensity contour of signal. A signal shorter than one window
// yields an empty contour.
func (in *IntensityExtractor) Compute(signal []float64, sampleRate int) *Contour {
	frameSize := int(math.Round(in.WindowSize * float64(sampleRate)))
	hopSize := in.Step * float64(sampleRate)
	start := float64(frameSize) / 2 / float64(sampleRate)

	if sampleRate <= 0 || frameSize <= 0 || hopSize <= 0 || len(signal) < frameSize {
		return NewEmptyContour(start, in.Step, 0)
	}

	numFrames := int(float64(len(signal)-frameSize)/hopSize) + 1
	weights := window.Hann(frameSize)
	weightSum := 0.0
	for _, w := range weights {
		weightSum += w
	}

	ref2 := in.Reference * in.Reference
	contour := NewEmptyContour(start, in.Step, numFrames)

	for i := 0; i < numFrames; i++ {
		startIdx := int(math.Round(float64(i) * hopSize))
		endIdx := startIdx + frameSize
		if endIdx > len(signal) {
			break
		}

		meanSquare := 0.0
		for j, w := range weights {
			s := signal[startIdx+j]
			meanSquare += w * s * s
		}
		meanSquare /= weightSum

		if meanSquare > 0 {
			contour.Set(i, 10*math.Log10(meanSquare/ref2))
		}
	}

	return contour
}
