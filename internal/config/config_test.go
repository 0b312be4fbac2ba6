package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, raw string) string {
	t.Helper()
	tmp := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmp, []byte(raw), 0644))
	return tmp
}

// clearEnv unsets keys for the duration of the test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfig_Valid(t *testing.T) {
	clearEnv(t, "HOST", "PORT", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_TIMEOUT", "REDIS_DB")
	tmp := writeConfig(t, `{
		"server": {
			"host": "localhost",
			"port": 8080,
			"allowed_origins": ["https://example.com"]
		},
		"gemini": {
			"api_key": "from-file",
			"model": "gemini-2.0-flash"
		},
		"redis": {
			"addr": "localhost:6379",
			"db": 2
		}
	}`)

	cfg, err := LoadConfig(tmp)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout, "default timeout should survive file load")
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t, "PORT", "GEMINI_API_KEY", "GEMINI_MODEL")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "no_such_config.json"))
	require.NoError(t, err, "missing file should not be an error")
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.False(t, cfg.GeminiConfigured())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{this is not json}`))
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	tmp := writeConfig(t, `{"server": {"port": 8080}, "gemini": {"api_key": "from-file"}}`)
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("GEMINI_TIMEOUT", "5s")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := LoadConfig(tmp)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Gemini.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "70000")
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestGeminiConfigured(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.GeminiConfigured())
	cfg.Gemini.APIKey = "  "
	assert.False(t, cfg.GeminiConfigured())
	cfg.Gemini.APIKey = "key"
	assert.True(t, cfg.GeminiConfigured())
}

func TestCORSOrigins_DefaultsFirstWithoutDuplicates(t *testing.T) {
	cfg := Default()
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000", "https://app.example"}
	assert.Equal(t,
		[]string{"http://localhost:3000", "http://localhost:3001", "https://app.example"},
		cfg.CORSOrigins())
}
