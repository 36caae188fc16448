package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacetraffic/internal/config"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLogLevel_DefaultsToWarn(t *testing.T) {
	unsetEnv(t, "LOG_LEVEL")
	unsetEnv(t, "PORT")

	cfg, err := config.Load(writeEnv(t, "PORT=8080\n"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "warn", logLevel(cfg))

	logger := newLogger(logLevel(cfg))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestLogLevel_ExplicitEnvWins(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")

	cfg, err := config.Load(writeEnv(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "info", logLevel(cfg))
	assert.True(t, newLogger(logLevel(cfg)).Enabled(context.Background(), slog.LevelInfo))
}

func TestLogLevel_DotenvWins(t *testing.T) {
	unsetEnv(t, "LOG_LEVEL")

	cfg, err := config.Load(writeEnv(t, "LOG_LEVEL=debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "debug", logLevel(cfg))
}

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "predict.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
