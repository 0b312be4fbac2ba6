package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-summarizer/internal/config"
	"search-summarizer/internal/search"
)

func newSearchRouter(client *search.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/search", SearchHandler(client))
	return r
}

func searchBackend(t *testing.T, status int, body string) *search.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	cfg := config.Default()
	cfg.LangSearch.APIKey = "key"
	cfg.LangSearch.BaseURL = srv.URL
	return search.NewClient(cfg)
}

func TestSearchHandler_BadRequest(t *testing.T) {
	w := postJSON(newSearchRouter(nil), "/search", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestSearchHandler_NotConfigured(t *testing.T) {
	w := postJSON(newSearchRouter(nil), "/search", `{"query":"go"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Missing LANGSEARCH_API_KEY in environment.", decode(t, w)["error"])
}

func TestSearchHandler_UpstreamError(t *testing.T) {
	client := searchBackend(t, http.StatusUnauthorized, `{"message":"bad key"}`)
	w := postJSON(newSearchRouter(client), "/search", `{"query":"go"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Upstream error", body["error"])
	assert.Equal(t, map[string]any{"message": "bad key"}, body["details"])
}

func TestSearchHandler_BackendUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.LangSearch.APIKey = "key"
	cfg.LangSearch.BaseURL = "http://127.0.0.1:1"

	w := postJSON(newSearchRouter(search.NewClient(cfg)), "/search", `{"query":"go"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
	assert.Equal(t, "Proxy failure", decode(t, w)["error"])
}

func TestSearchHandler_OK(t *testing.T) {
	client := searchBackend(t, http.StatusOK, `{"data":{"summary":"sum","webPages":{"value":[{"name":"Go","url":"https://go.dev","snippet":"lang"}]}}}`)
	w := postJSON(newSearchRouter(client), "/search", `{"query":"go","count":5}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		OK      bool `json:"ok"`
		Results []struct {
			Title, URL, Snippet string
		} `json:"results"`
		Summary string          `json:"summary"`
		Raw     json.RawMessage `json:"raw"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "Go", body.Results[0].Title)
	assert.Equal(t, "sum", body.Summary)
	assert.NotEmpty(t, body.Raw)
}
