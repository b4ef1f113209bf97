package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestFanout_RespectsEachLevel(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := Fanout(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(h).With("repo", "acme/widgets")

	logger.Debug("fetching")
	logger.Warn("rate limited")

	assert.Contains(t, debugBuf.String(), "fetching")
	assert.Contains(t, debugBuf.String(), "rate limited")
	assert.NotContains(t, warnBuf.String(), "fetching")
	assert.Contains(t, warnBuf.String(), "repo=acme/widgets")
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug-4))
}

func TestSetup_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gitme.log")

	logger, closer, err := Setup(Options{File: path, Level: "info", TUI: true})
	require.NoError(t, err)
	logger.Info("refresh done", "repo", "acme/widgets")
	logger.Debug("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "refresh done")
	assert.NotContains(t, string(data), "hidden")
}
