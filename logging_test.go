package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tc := range cases {
		got, err := parseLevel(tc.name)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}

	_, err := parseLevel("verbose")
	assert.Error(t, err)
}

func TestDefaultLogFile(t *testing.T) {
	now := time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "argus_20260102_030405.log", defaultLogFile(now))
}

func TestNewLoggerConsoleOnly(t *testing.T) {
	logger, closer, err := newLogger("info", "-")
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Nil(t, closer)
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, _, err := newLogger("bogus", "-")
	assert.Error(t, err)
}

func TestNewLoggerMirrorsToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "run.log")
	logger, closer, err := newLogger("debug", logFile)
	require.NoError(t, err)
	require.NotNil(t, closer)

	logger.Info("processing started", "source", "fixture.zip")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "processing started")
	assert.Contains(t, string(data), "fixture.zip")
}
