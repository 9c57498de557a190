package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/tone-changer/internal/infra/config"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, parseLevel("warn"))
	require.Equal(t, slog.LevelError, parseLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestNewWritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.log")
	cfg := &config.Config{Log: config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}}

	log := New(cfg)
	log.Info("hello", "tone", "cheerful")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"service":"tone-changer"`)
	require.Contains(t, string(data), `"tone":"cheerful"`)
}
