package transcode

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DecodeWAV decodes a PCM WAV stream. Integer samples are scaled by the source bit
// depth into [-1, 1] and split per channel.
func DecodeWAV(r io.ReadSeeker) (*AudioData, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid WAV format")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(dec.BitDepth)
	}

	return &AudioData{
		Samples:    deinterleave(intToFloat(buf.Data, bitDepth), buf.Format.NumChannels),
		SampleRate: buf.Format.SampleRate,
		Metadata: &StreamMetadata{
			Format:     "wav",
			Codec:      "pcm",
			SampleRate: buf.Format.SampleRate,
			Channels:   buf.Format.NumChannels,
			BitDepth:   bitDepth,
		},
	}, nil
}

// EncodeWAV writes a waveform as 16-bit PCM WAV
func EncodeWAV(w io.WriteSeeker, data *AudioData) error {
	numChannels := data.NumChannels()
	if numChannels == 0 || data.SampleRate <= 0 {
		return fmt.Errorf("nothing to encode")
	}

	const bitDepth = 16
	scale := float64(int(1)<<(bitDepth-1) - 1)

	frames := data.NumSamples()
	ints := make([]int, 0, frames*numChannels)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < numChannels; ch++ {
			s := 0.0
			if i < len(data.Samples[ch]) {
				s = math.Max(-1, math.Min(1, data.Samples[ch][i]))
			}
			ints = append(ints, int(math.Round(s*scale)))
		}
	}

	enc := wav.NewEncoder(w, data.SampleRate, bitDepth, numChannels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  data.SampleRate,
		},
		Data:           ints,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close encoder: %w", err)
	}
	return nil
}

func intToFloat(data []int, bitDepth int) []float64 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))
	offset := 0.0
	if bitDepth == 8 {
		// 8-bit PCM is unsigned
		offset = scale
	}

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = (float64(v) - offset) / scale
	}
	return out
}
