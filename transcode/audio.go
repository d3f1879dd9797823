package transcode

import (
	"time"
)

// AudioData represents a decoded waveform. Samples holds one buffer per channel with
// values in [-1, 1]; callers treat it as read-only.
type AudioData struct {
	Samples    [][]float64     `json:"-"`
	SampleRate int             `json:"sample_rate"`
	Timestamp  time.Time       `json:"timestamp"`
	Metadata   *StreamMetadata `json:"metadata,omitempty"`
}

// StreamMetadata describes where a waveform came from
type StreamMetadata struct {
	Source     string `json:"source"`
	Format     string `json:"format"`
	Codec      string `json:"codec,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
	BitDepth   int    `json:"bit_depth,omitempty"`
}

// NewAudioData builds a waveform from in-memory channel buffers
func NewAudioData(sampleRate int, channels ...[]float64) *AudioData {
	return &AudioData{
		Samples:    channels,
		SampleRate: sampleRate,
		Timestamp:  time.Now(),
	}
}

// NumChannels returns the number of channel buffers
func (a *AudioData) NumChannels() int {
	return len(a.Samples)
}

// Channel returns the samples of channel i, or nil when it does not exist
func (a *AudioData) Channel(i int) []float64 {
	if a == nil || i < 0 || i >= len(a.Samples) {
		return nil
	}
	return a.Samples[i]
}

// NumSamples returns the number of samples per channel
func (a *AudioData) NumSamples() int {
	return len(a.Channel(0))
}

// Duration returns the length of the waveform in seconds
func (a *AudioData) Duration() float64 {
	if a == nil || a.SampleRate <= 0 {
		return 0
	}
	return float64(a.NumSamples()) / float64(a.SampleRate)
}

// deinterleave splits interleaved frames into per-channel buffers, dropping a trailing
// partial frame.
func deinterleave(interleaved []float64, numChannels int) [][]float64 {
	if numChannels <= 0 {
		return nil
	}
	frames := len(interleaved) / numChannels
	channels := make([][]float64, numChannels)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < numChannels; ch++ {
			channels[ch][i] = interleaved[i*numChannels+ch]
		}
	}
	return channels
}
