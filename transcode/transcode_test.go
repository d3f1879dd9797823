package transcode

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioData(t *testing.T) {
	data := NewAudioData(16000, make([]float64, 8000), make([]float64, 8000))

	assert.Equal(t, 2, data.NumChannels())
	assert.Equal(t, 8000, data.NumSamples())
	assert.InDelta(t, 0.5, data.Duration(), 1e-12)
	assert.Nil(t, data.Channel(2))

	var missing *AudioData
	assert.Equal(t, 0.0, missing.Duration())
	assert.Equal(t, 0.0, NewAudioData(0).Duration())
}

func TestDeinterleave(t *testing.T) {
	channels := deinterleave([]float64{1, -1, 2, -2, 3, -3, 4}, 2)
	require.Len(t, channels, 2)
	assert.Equal(t, []float64{1, 2, 3}, channels[0])
	assert.Equal(t, []float64{-1, -2, -3}, channels[1])
}

func TestWAVRoundTrip(t *testing.T) {
	sampleRate := 16000
	left := make([]float64, 1600)
	right := make([]float64, 1600)
	for i := range left {
		left[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
		right[i] = -left[i]
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, EncodeWAV(f, NewAudioData(sampleRate, left, right)))
	require.NoError(t, f.Close())

	data, err := NewDecoder(nil).DecodeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, sampleRate, data.SampleRate)
	require.Equal(t, 2, data.NumChannels())
	require.Equal(t, len(left), data.NumSamples())
	assert.Equal(t, path, data.Metadata.Source)
	assert.Equal(t, 16, data.Metadata.BitDepth)

	for i := range left {
		assert.InDelta(t, left[i], data.Channel(0)[i], 1e-4)
		assert.InDelta(t, right[i], data.Channel(1)[i], 1e-4)
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a riff file"), 0o644))

	_, err := NewDecoder(nil).DecodeFile(context.Background(), path)
	assert.Error(t, err)
}

func TestParseFFprobeOutput(t *testing.T) {
	metadata, err := parseFFprobeOutput([]byte(`{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"44100","channels":2,"duration":"3.5"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 44100, metadata.SampleRate)
	assert.Equal(t, 2, metadata.Channels)
	assert.Equal(t, "mp3", metadata.Codec)
	assert.Equal(t, 3.5, metadata.Duration)

	_, err = parseFFprobeOutput([]byte(`{"streams":[]}`))
	assert.Error(t, err)
	_, err = parseFFprobeOutput([]byte(`{"streams":[{"codec_type":"video","channels":1}]}`))
	assert.Error(t, err)
}

func TestBytesToFloat64(t *testing.T) {
	raw := make([]byte, 8*3+5)
	for i, v := range []float64{0.25, -1, 0.5} {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(v))
	}
	assert.Equal(t, []float64{0.25, -1, 0.5}, bytesToFloat64(raw))
	assert.Nil(t, bytesToFloat64([]byte{1, 2}))
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, NewDecoder(nil).ValidateConfig())
	assert.Error(t, NewDecoder(&DecoderConfig{TargetSampleRate: 0}).ValidateConfig())
}
