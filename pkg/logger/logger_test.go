package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelBasedMuxHandler(t *testing.T) {
	var stdout, file bytes.Buffer
	log := slog.New(NewLevelBasedMuxHandler(&stdout, &file, slog.LevelDebug)).With(slog.String("trace_id", "abc"))

	log.Debug("cache hit")
	log.Info("trade completed", slog.String("op", "service.buy"))

	assert.Equal(t, 2, strings.Count(stdout.String(), "\n"))
	require.Equal(t, 1, strings.Count(file.String(), "\n"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &rec))
	assert.Equal(t, "trade completed", rec["msg"])
	assert.Equal(t, "abc", rec["trace_id"])
	assert.Contains(t, rec, "source")
}

func TestLevelBasedMuxHandler_StdoutLevel(t *testing.T) {
	var stdout, file bytes.Buffer
	log := slog.New(NewLevelBasedMuxHandler(&stdout, &file, slog.LevelWarn))

	log.Info("ignored")
	log.Error("kept")

	assert.NotContains(t, stdout.String(), "ignored")
	assert.Contains(t, stdout.String(), "kept")
	assert.NotContains(t, file.String(), "ignored")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
