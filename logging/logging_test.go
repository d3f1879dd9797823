package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"", InfoLevel},
		{"warning", WarnLevel},
		{" error ", ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestDefaultLoggerRoutesByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewDefaultLoggerWithWriters(&stdout, &stderr)

	logger.WithFields(Fields{"component": "test"}).Info("hello", Fields{"b": 2, "a": 1})
	logger.Warn("careful")
	logger.Error(errors.New("boom"), "failed")

	assert.Equal(t, "[INFO] hello a=1 b=2 component=test\n", stdout.String())
	assert.Contains(t, stderr.String(), "[WARN] careful")
	assert.Contains(t, stderr.String(), "[ERROR] failed: boom")
}

func TestDefaultLoggerColorsProblems(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewDefaultLoggerWithWriters(&stdout, &stderr)
	logger.useColors = true

	logger.Info("plain")
	logger.Warn("careful")

	assert.Equal(t, "[INFO] plain\n", stdout.String())
	assert.Equal(t, ColorYellow+"[WARN] careful"+ColorReset+"\n", stderr.String())
}

func TestDefaultLoggerRespectsLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewDefaultLoggerWithWriters(&stdout, &stderr)
	logger.SetLevel(WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "shown")
}

func TestWithContextPicksUpFields(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewDefaultLoggerWithWriters(&stdout, &stderr)

	ctx := ContextWithFields(context.Background(), Fields{"file": "a.wav"})
	logger.WithContext(ctx).Info("segmented")

	assert.Contains(t, stdout.String(), "file=a.wav")
}

func TestLogrusLogger(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	logger := NewLogrusLogger(base)
	logger.SetLevel(DebugLevel)
	logger.WithFields(Fields{"component": "em"}).Debug("iteration", Fields{"n": 3})

	out := buf.String()
	assert.Contains(t, out, "level=debug")
	assert.Contains(t, out, "component=em")
	assert.Contains(t, out, "n=3")
}

func TestSetGlobalLoggerNil(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	SetGlobalLogger(nil)
	_, ok := GetGlobalLogger().(*NoOpLogger)
	assert.True(t, ok)
}
