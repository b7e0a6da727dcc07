package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/m0rjc/ModeBinder/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		t.Setenv("LOG_LEVEL", in)
		assert.Equal(t, want, getLogLevel(), "LOG_LEVEL=%q", in)
	}
}

func TestGetLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "JSON")
	assert.Equal(t, "json", getLogFormat())
	t.Setenv("LOG_FORMAT", "pretty")
	assert.Equal(t, "text", getLogFormat())
}

func TestInitLogger_FansOutToFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	path := filepath.Join(t.TempDir(), "binder.log")
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_FORMAT", "text")

	var buf bytes.Buffer
	closeLog, err := InitLogger(&buf)
	require.NoError(t, err)

	slog.Info("binder.test_record", "mode", "test")
	require.NoError(t, closeLog())

	assert.Contains(t, buf.String(), "binder.test_record")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"binder.test_record"`)
	assert.Contains(t, string(data), `"mode":"test"`)
}

func TestInitLogger_BadFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "missing", "binder.log"))
	_, err := InitLogger(&bytes.Buffer{})
	assert.Error(t, err)
}

func TestInitLogger_LevelFromDotEnv(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o600))

	// Restored by t.Setenv's cleanup; unset so the .env value is not shadowed.
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))
	t.Setenv("LOG_FILE", "")

	require.NoError(t, config.LoadDotEnv())
	_, err := InitLogger(&bytes.Buffer{})
	require.NoError(t, err)

	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}
