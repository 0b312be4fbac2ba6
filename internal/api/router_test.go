package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-summarizer/internal/auth"
	"search-summarizer/internal/config"
)

func TestSetupRouter_BasicRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter(config.Default(), Deps{Log: zerolog.Nop()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader), "expected a generated request id header")
	assert.Equal(t, false, decode(t, w)["gemini_configured"])

	w = postJSON(r, "/summarize", `{"query":"go","results":[{"title":"Go"}]}`)
	require.Equal(t, http.StatusOK, w.Code, "summarize should answer without Gemini")
	assert.Equal(t, "static", w.Header().Get(summarySourceHeader))
}

func TestSetupRouter_RequestIDPassthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter(config.Default(), Deps{Log: zerolog.Nop()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestSetupRouter_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Server.AllowedOrigins = []string{"https://search.example.com"}
	r := SetupRouter(cfg, Deps{Log: zerolog.Nop()})

	for origin, allowed := range map[string]bool{
		"http://localhost:3000":      true,
		"https://search.example.com": true,
		"https://evil.example.com":   false,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", origin)
		r.ServeHTTP(w, req)
		got := w.Header().Get("Access-Control-Allow-Origin") == origin
		assert.Equal(t, allowed, got, "origin %s", origin)
	}
}

func TestSetupRouter_Auth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Auth.JWTSecret = "secret"
	r := SetupRouter(cfg, Deps{Log: zerolog.Nop()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code, "health must stay open")

	body := `{"query":"go","results":[{"title":"Go"}]}`
	assert.Equal(t, http.StatusUnauthorized, postJSON(r, "/summarize", body).Code)

	token, err := auth.GenerateJWT("secret", "tests", time.Minute)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/summarize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestLogger(zerolog.Nop()), recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
