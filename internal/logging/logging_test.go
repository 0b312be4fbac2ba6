package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-summarizer/internal/config"
)

func TestSetup_InvalidLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "loud"
	_, _, err := setup(cfg, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSetup_WritesJSONWithServiceField(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer
	logger, closer, err := setup(cfg, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info().Str("query", "q").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, ServiceName, line["service"])
	assert.Equal(t, "q", line["query"])
}

func TestSetup_LevelFiltersDebug(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "warn"
	var buf bytes.Buffer
	logger, closer, err := setup(cfg, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info().Msg("dropped")
	assert.Zero(t, buf.Len())
}

func TestSetup_AlsoWritesToFile(t *testing.T) {
	cfg := config.Default()
	cfg.Log.File = filepath.Join(t.TempDir(), "service.log")
	var buf bytes.Buffer
	logger, closer, err := setup(cfg, &buf)
	require.NoError(t, err)

	logger.Warn().Msg("to both")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "to both")
	assert.Contains(t, buf.String(), "to both")
}
