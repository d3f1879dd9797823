package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "syllable.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := DefaultSegmenterConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, AlgorithmEM, cfg.Algorithm)
	assert.Equal(t, 0.1, cfg.EM.SeedSpacing)
	assert.Equal(t, 1000, cfg.EM.MaxIterations)
	assert.Equal(t, 16000, cfg.Envelope.ReferenceRate)
	assert.Equal(t, 10, cfg.Envelope.SuppressionWindow)
	assert.Equal(t, 0.3, cfg.Envelope.SilenceRatio)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSegmenterConfig(), cfg)
}

func TestLoadYAMLOverDefaults(t *testing.T) {
	path := writeConfig(t, `
algorithm: envelope
envelope:
  suppression_window: 5
em:
  max_iterations: 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, AlgorithmEnvelope, cfg.Algorithm)
	assert.Equal(t, 5, cfg.Envelope.SuppressionWindow)
	assert.Equal(t, 50, cfg.EM.MaxIterations)

	// untouched fields keep their defaults
	assert.Equal(t, 0.3, cfg.Envelope.Compression)
	assert.Equal(t, 0.05, cfg.EM.SeedStdDev)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "algorithm: envelope\n")
	t.Setenv("SYLLABLE_ALGORITHM", "em")
	t.Setenv("SYLLABLE_EM_MAX_ITERATIONS", "25")
	t.Setenv("SYLLABLE_ENVELOPE_SILENCE_RATIO", "0.5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, AlgorithmEM, cfg.Algorithm)
	assert.Equal(t, 25, cfg.EM.MaxIterations)
	assert.Equal(t, 0.5, cfg.Envelope.SilenceRatio)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "algorithm: [not, a, string]\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "unknown_key: 1\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "algorithm: wavelet\n"))
	assert.ErrorContains(t, err, "unknown algorithm")

	t.Setenv("SYLLABLE_EM_MAX_ITERATIONS", "lots")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SegmenterConfig)
	}{
		{"negative dc cutoff", func(c *SegmenterConfig) { c.EM.DCCutoff = -1 }},
		{"zero iterations", func(c *SegmenterConfig) { c.EM.MaxIterations = 0 }},
		{"zero seed spacing", func(c *SegmenterConfig) { c.EM.SeedSpacing = 0 }},
		{"em silence ratio of one", func(c *SegmenterConfig) { c.EM.SilenceRatio = 1 }},
		{"inverted boundary range", func(c *SegmenterConfig) { c.Envelope.BoundaryLow = 0.5 }},
		{"frame rate above reference", func(c *SegmenterConfig) { c.Envelope.FrameRate = 32000 }},
		{"negative suppression window", func(c *SegmenterConfig) { c.Envelope.SuppressionWindow = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSegmenterConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte("algorithm: envelope\n"))
	require.NoError(t, err)
	assert.Equal(t, AlgorithmEnvelope, cfg.Algorithm)

	cfg, err = Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, AlgorithmEM, cfg.Algorithm)
}
