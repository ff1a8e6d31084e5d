package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/emberkeep/config"
)

func TestSetup_TextInDevelopment(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger, err := Setup(config.Config{LogLevel: "info", Env: "development"}, &buf)
	require.NoError(t, err)

	logger.Info("combat started", "enemy", "goblin")
	logger.Debug("hidden")

	assert.Contains(t, buf.String(), "msg=\"combat started\"")
	assert.Contains(t, buf.String(), "enemy=goblin")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Same(t, logger, slog.Default())
}

func TestSetup_JSONInProduction(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger, err := Setup(config.Config{LogLevel: "debug", Env: "production"}, &buf)
	require.NoError(t, err)

	WithError(logger, errors.New("boom")).Debug("load failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "load failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "DEBUG", entry["level"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
