package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultOrigins are always allowed to make cross-origin requests.
var DefaultOrigins = []string{"http://localhost:3000", "http://localhost:3001"}

type Config struct {
	Server struct {
		Host           string   `json:"host" env:"HOST"`
		Port           int      `json:"port" env:"PORT"`
		AllowedOrigins []string `json:"allowed_origins" env:"ALLOWED_ORIGINS"`
		GinMode        string   `json:"gin_mode" env:"GIN_MODE"`
	} `json:"server"`
	Gemini struct {
		APIKey           string        `json:"api_key" env:"GEMINI_API_KEY"`
		Model            string        `json:"model" env:"GEMINI_MODEL"`
		BaseURL          string        `json:"base_url" env:"GEMINI_BASE_URL"`
		Timeout          time.Duration `json:"-" env:"GEMINI_TIMEOUT"`
		MaxRetries       int           `json:"max_retries" env:"GEMINI_MAX_RETRIES"`
		BreakerThreshold int           `json:"breaker_threshold" env:"GEMINI_BREAKER_THRESHOLD"`
		BreakerTimeout   time.Duration `json:"-" env:"GEMINI_BREAKER_TIMEOUT"`
	} `json:"gemini"`
	Redis struct {
		Addr     string        `json:"addr" env:"REDIS_ADDR"`
		Password string        `json:"password" env:"REDIS_PASSWORD"`
		DB       int           `json:"db" env:"REDIS_DB"`
		TTL      time.Duration `json:"-" env:"CACHE_TTL"`
	} `json:"redis"`
	Auth struct {
		JWTSecret string `json:"jwt_secret" env:"AUTH_JWT_SECRET"`
	} `json:"auth"`
	LangSearch struct {
		APIKey  string        `json:"api_key" env:"LANGSEARCH_API_KEY"`
		BaseURL string        `json:"base_url" env:"LANGSEARCH_BASE_URL"`
		Timeout time.Duration `json:"-" env:"LANGSEARCH_TIMEOUT"`
	} `json:"langsearch"`
	Log struct {
		Level string `json:"level" env:"LOG_LEVEL"`
		File  string `json:"file" env:"LOG_FILE"`
	} `json:"log"`
}

// Default returns a config populated with the built-in defaults.
func Default() *Config {
	c := &Config{}
	c.Server.Host = "0.0.0.0"
	c.Server.Port = 5000
	c.Gemini.Model = "gemini-1.5-flash"
	c.Gemini.Timeout = 60 * time.Second
	c.Gemini.MaxRetries = 1
	c.Gemini.BreakerThreshold = 5
	c.Gemini.BreakerTimeout = 30 * time.Second
	c.Redis.TTL = 15 * time.Minute
	c.LangSearch.BaseURL = "https://api.langsearch.com"
	c.LangSearch.Timeout = 20 * time.Second
	c.Log.Level = "info"
	return c
}

// LoadConfig builds the process configuration: defaults, then the optional
// JSON file at path, then environment variables. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := json.Unmarshal(raw, c); err != nil {
				return nil, fmt.Errorf("invalid config format: %w", err)
			}
		}
	}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	c.Server.AllowedOrigins = normalizeOrigins(c.Server.AllowedOrigins)
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return nil, fmt.Errorf("port out of range: %d", c.Server.Port)
	}
	return c, nil
}

// GeminiConfigured reports whether a Gemini credential is present.
func (c *Config) GeminiConfigured() bool {
	return strings.TrimSpace(c.Gemini.APIKey) != ""
}

// CORSOrigins returns the default origins followed by the configured extras.
func (c *Config) CORSOrigins() []string {
	origins := append([]string{}, DefaultOrigins...)
	for _, o := range c.Server.AllowedOrigins {
		dup := false
		for _, existing := range origins {
			if existing == o {
				dup = true
				break
			}
		}
		if !dup {
			origins = append(origins, o)
		}
	}
	return origins
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
