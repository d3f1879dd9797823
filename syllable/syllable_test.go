package syllable

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-syllable/algorithms/temporal"
	"github.com/RyanBlaney/sonido-syllable/syllable/config"
	"github.com/RyanBlaney/sonido-syllable/transcode"
)

// toneBursts returns a 500 Hz tone at amplitude 0.5 inside each [start, end) span and
// silence elsewhere.
func toneBursts(sampleRate int, total float64, spans ...Region) *transcode.AudioData {
	samples := make([]float64, int(total*float64(sampleRate)))
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		for _, span := range spans {
			if span.Contains(t) {
				samples[i] = 0.5 * math.Sin(2*math.Pi*500*t)
			}
		}
	}
	return transcode.NewAudioData(sampleRate, samples)
}

// fixedContour hands the EM segmenter a prepared intensity contour
type fixedContour struct {
	contour *temporal.Contour
}

func (f fixedContour) Compute([]float64, int) *temporal.Contour {
	return f.contour
}

func TestRegion(t *testing.T) {
	r := Region{Start: 0.2, End: 0.5}
	assert.InDelta(t, 0.3, r.Duration(), 1e-12)
	assert.InDelta(t, 0.1, r.Overlap(Region{Start: 0.4, End: 0.9}), 1e-12)
	assert.Equal(t, 0.0, r.Overlap(Region{Start: 0.5, End: 0.9}))
	assert.True(t, r.Contains(0.2))
	assert.False(t, r.Contains(0.5))
	assert.Equal(t, "[0.200, 0.500)", r.String())
}

func TestRegionsFromBoundaries(t *testing.T) {
	regions := RegionsFromBoundaries([]float64{0.1, 0.4, 0.4, 0.9})
	assert.Equal(t, []Region{{0.1, 0.4}, {0.4, 0.9}}, regions)
	assert.True(t, Ordered(regions))

	assert.Empty(t, RegionsFromBoundaries([]float64{1.5}))
	assert.Empty(t, RegionsFromBoundaries(nil))

	assert.False(t, Ordered([]Region{{0, 0.5}, {0.4, 0.9}}))
	assert.False(t, Ordered([]Region{{0.5, 0.5}}))
}

func TestNewSegmenter(t *testing.T) {
	cfg := config.DefaultSegmenterConfig()

	seg, err := NewSegmenter(cfg)
	require.NoError(t, err)
	assert.Equal(t, "em", seg.Name())
	assert.IsType(t, &EMSegmenter{}, seg)

	cfg.Algorithm = config.AlgorithmEnvelope
	seg, err = NewSegmenter(cfg)
	require.NoError(t, err)
	assert.Equal(t, "envelope", seg.Name())

	cfg.Algorithm = "wavelet"
	_, err = NewSegmenter(cfg)
	assert.Error(t, err)

	seg, err = NewSegmenter(nil)
	require.NoError(t, err)
	assert.Equal(t, "em", seg.Name())
}

func TestEMSegmenterSingleBump(t *testing.T) {
	// 30 dB noise floor with one bump peaking at 80 dB, centred on the 0.45 s seed
	values := make([]float64, 98)
	for i := range values {
		tm := 0.0125 + float64(i)*0.01
		values[i] = 30 + 1.5*math.Sin(37*float64(i)) + 50*math.Exp(-(tm-0.45)*(tm-0.45)/(2*0.03*0.03))
	}
	contour := temporal.NewContour(0.0125, 0.01, values)

	seg := NewEMSegmenterWithExtractor(config.DefaultEMConfig(), fixedContour{contour})
	audio := transcode.NewAudioData(16000, make([]float64, 16000))

	// only the component on the bump survives as sound, every noise component is silent
	mixture := seg.fit(audio, audio.Duration(), seg.logger)
	require.NotNil(t, mixture)
	voiced := 0
	for _, c := range mixture.Components {
		if c.Silent {
			continue
		}
		voiced++
		assert.InDelta(t, 0.45, c.Mean, 0.05)
	}
	assert.Equal(t, 1, voiced)

	regions := seg.Generate(audio)
	require.Len(t, regions, 1)
	r := regions[0]
	assert.True(t, r.Contains(0.45))
	assert.Greater(t, r.Start, 0.3)
	assert.Less(t, r.Start, 0.42)
	assert.Greater(t, r.End, 0.48)
	assert.Less(t, r.End, 0.6)
}

func TestEMSegmenterEmptyContour(t *testing.T) {
	contour := temporal.NewEmptyContour(0.0125, 0.01, 50)
	seg := NewEMSegmenterWithExtractor(config.DefaultEMConfig(), fixedContour{contour})

	assert.Empty(t, seg.Generate(transcode.NewAudioData(16000, make([]float64, 8000))))
}

func TestEMSegmenterOnWaveform(t *testing.T) {
	audio := toneBursts(16000, 1.5, Region{0.2, 0.5}, Region{1.0, 1.3})
	regions := NewEMSegmenter(config.DefaultEMConfig()).Generate(audio)

	require.NotEmpty(t, regions)
	assert.True(t, Ordered(regions))
	assert.GreaterOrEqual(t, regions[0].Start, 0.0)
	assert.LessOrEqual(t, regions[len(regions)-1].End, 1.5)
}

func TestEMSegmenterRemovesDC(t *testing.T) {
	samples := make([]float64, 16000)
	for i := range samples {
		samples[i] = 0.3
	}
	audio := transcode.NewAudioData(16000, samples)

	cfg := config.DefaultEMConfig()
	assert.NotEmpty(t, NewEMSegmenter(cfg).Generate(audio))

	cfg.DCCutoff = 20
	regions := NewEMSegmenter(cfg).Generate(audio)
	assert.NotNil(t, regions)
	assert.Empty(t, regions)
}

func TestEnvelopeSegmenterTwoBursts(t *testing.T) {
	bursts := []Region{{0.2, 0.5}, {1.0, 1.3}}
	audio := toneBursts(16000, 1.5, bursts...)

	regions := NewEnvelopeSegmenter(config.DefaultEnvelopeConfig()).Generate(audio)

	require.Len(t, regions, 2)
	assert.True(t, Ordered(regions))
	for i, burst := range bursts {
		assert.GreaterOrEqual(t, regions[i].Overlap(burst), 0.8*burst.Duration(), "burst %d", i)
	}
	assert.InDelta(t, 1.5, regions[1].End, 1e-12)
}

func TestEnvelopeSegmenterOtherRate(t *testing.T) {
	audio := toneBursts(8000, 1.5, Region{0.2, 0.5}, Region{1.0, 1.3})
	regions := NewEnvelopeSegmenter(config.DefaultEnvelopeConfig()).Generate(audio)
	assert.True(t, Ordered(regions))

	// no table for 11025 Hz: warn and fall back instead of failing
	audio = toneBursts(11025, 1.5, Region{0.2, 0.5})
	regions = NewEnvelopeSegmenter(config.DefaultEnvelopeConfig()).Generate(audio)
	assert.True(t, Ordered(regions))
}

func TestSegmentersHandleInsufficientData(t *testing.T) {
	segmenters := []Segmenter{
		NewEMSegmenter(config.DefaultEMConfig()),
		NewEnvelopeSegmenter(config.DefaultEnvelopeConfig()),
	}
	inputs := map[string]*transcode.AudioData{
		"nil":        nil,
		"no samples": transcode.NewAudioData(16000, []float64{}),
		"zero rate":  transcode.NewAudioData(0, make([]float64, 100)),
		"tiny":       transcode.NewAudioData(16000, []float64{0.1, -0.1, 0.2}),
		"silence":    transcode.NewAudioData(16000, make([]float64, 16000)),
	}

	for _, seg := range segmenters {
		for name, audio := range inputs {
			t.Run(seg.Name()+"/"+name, func(t *testing.T) {
				regions := seg.Generate(audio)
				assert.NotNil(t, regions)
				assert.Empty(t, regions)
			})
		}
	}
}

func TestSuppression(t *testing.T) {
	seg := NewEnvelopeSegmenter(config.DefaultEnvelopeConfig())
	candidates := []candidate{
		{run: temporal.OnsetRun{Peak: 10}, combined: 1.0},
		{run: temporal.OnsetRun{Peak: 13}, combined: 0.2},
		{run: temporal.OnsetRun{Peak: 30}, combined: 0.5},
	}

	out := seg.suppress(candidates)
	require.Len(t, out, 3)
	assert.InDelta(t, 1.0-0.2*0.7, out[0], 1e-12)
	assert.InDelta(t, 0.2-1.0*0.7, out[1], 1e-12)
	assert.InDelta(t, 0.5, out[2], 1e-12)
}

func TestScore(t *testing.T) {
	seg := NewEnvelopeSegmenter(config.DefaultEnvelopeConfig())
	velocity := []float64{0, 0.055, 0.2, 0}
	normalized := []float64{0, 0, 0, 0.5}

	candidates := seg.score([]temporal.OnsetRun{{Start: 1, Peak: 2, End: 3, PeakValue: 0.2}}, velocity, normalized)
	require.Len(t, candidates, 1)
	assert.Equal(t, 1.0, candidates[0].boundary)
	assert.InDelta(t, 0.5, candidates[0].combined, 1e-12)

	candidates = seg.score([]temporal.OnsetRun{{Start: 1, Peak: 1, End: 3, PeakValue: 0.055}}, velocity, normalized)
	assert.InDelta(t, 0.5, candidates[0].boundary, 1e-12)
	assert.InDelta(t, 0.5*(0.054/0.099), candidates[0].combined, 1e-12)
}

// durationSegmenter reports each waveform's duration as a single region
type durationSegmenter struct {
	calls atomic.Int32
}

func (d *durationSegmenter) Generate(audio *transcode.AudioData) []Region {
	d.calls.Add(1)
	return []Region{{Start: 0, End: audio.Duration()}}
}

func (d *durationSegmenter) Name() string { return "duration" }

func TestGenerateAllKeepsOrder(t *testing.T) {
	var waveforms []*transcode.AudioData
	for i := 1; i <= 20; i++ {
		waveforms = append(waveforms, transcode.NewAudioData(100, make([]float64, i*10)))
	}

	seg := &durationSegmenter{}
	results, err := GenerateAll(context.Background(), seg, waveforms, 4)
	require.NoError(t, err)
	require.Len(t, results, 20)
	for i, regions := range results {
		require.Len(t, regions, 1)
		assert.InDelta(t, float64(i+1)*0.1, regions[0].End, 1e-12)
	}
	assert.Equal(t, int32(20), seg.calls.Load())
}

func TestGenerateAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seg := &durationSegmenter{}
	results, err := GenerateAll(ctx, seg, []*transcode.AudioData{transcode.NewAudioData(100, make([]float64, 10))}, 2)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.Nil(t, results[0])
	assert.Equal(t, int32(0), seg.calls.Load())
}

func TestGenerateAllConcurrentSegmenters(t *testing.T) {
	audio := toneBursts(16000, 1.5, Region{0.2, 0.5}, Region{1.0, 1.3})
	waveforms := []*transcode.AudioData{audio, audio, audio}

	seg := NewEnvelopeSegmenter(config.DefaultEnvelopeConfig())
	results, err := GenerateAll(context.Background(), seg, waveforms, 3)
	require.NoError(t, err)

	want := seg.Generate(audio)
	for _, regions := range results {
		assert.Equal(t, want, regions)
	}
}
