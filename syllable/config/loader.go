package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SYLLABLE_EM_MAX_ITERATIONS
const EnvPrefix = "SYLLABLE"

// Load builds a configuration from defaults, then the YAML file at path (skipped when
// path is empty), then SYLLABLE_* environment variables, and validates the result.
func Load(path string) (*SegmenterConfig, error) {
	cfg := DefaultSegmenterConfig()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		if err := decodeYAML(f, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Environment
// variables are not consulted.
func Parse(data []byte) (*SegmenterConfig, error) {
	cfg := DefaultSegmenterConfig()
	if err := decodeYAML(bytes.NewReader(data), cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeYAML(r io.Reader, cfg *SegmenterConfig) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}
