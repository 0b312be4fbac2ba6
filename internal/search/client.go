package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"search-summarizer/internal/config"
	"search-summarizer/internal/summary"
)

const rerankModel = "langsearch-reranker-v1"

var ErrNotConfigured = errors.New("langsearch api key not configured")

// UpstreamError is a non-2xx reply from the search backend.
type UpstreamError struct {
	Status  int
	Details any
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("search backend returned status %d", e.Status)
}

// Request mirrors the web-search API body.
type Request struct {
	Query      string `json:"query"`
	Count      int    `json:"count"`
	Freshness  string `json:"freshness"`
	Summary    bool   `json:"summary"`
	DeepSearch bool   `json:"-"`
}

// Response is the normalized search reply. Raw holds the backend JSON as
// received (or its text when it was not JSON).
type Response struct {
	Results []summary.SearchResult
	Summary string
	Raw     any
}

// Client calls the LangSearch web-search and rerank APIs.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient returns nil when no API key is configured.
func NewClient(cfg *config.Config) *Client {
	if cfg.LangSearch.APIKey == "" {
		return nil
	}
	timeout := cfg.LangSearch.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(cfg.LangSearch.BaseURL, "/"),
		APIKey:     cfg.LangSearch.APIKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Search runs a web search. With req.DeepSearch the results are reordered by
// the rerank API, or by the lexical ranker when reranking fails.
func (c *Client) Search(ctx context.Context, req Request) (*Response, error) {
	if c == nil || c.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if req.Count <= 0 {
		req.Count = 10
	}
	if req.Freshness == "" {
		req.Freshness = "noLimit"
	}

	raw, status, err := c.post(ctx, "/v1/web-search", req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &UpstreamError{Status: status, Details: raw}
	}

	resp := normalize(raw)
	if req.DeepSearch && len(resp.Results) > 0 {
		ordered, err := c.Rerank(ctx, req.Query, resp.Results)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("rerank failed, using lexical ranking")
			ordered = RankResults(req.Query, resp.Results)
		}
		resp.Results = ordered
	}
	return resp, nil
}

type rerankRequest struct {
	Model           string   `json:"model"`
	Query           string   `json:"query"`
	Documents       []string `json:"documents"`
	TopN            int      `json:"top_n"`
	ReturnDocuments bool     `json:"return_documents"`
}

// Rerank reorders results by the backend's semantic relevance scores.
func (c *Client) Rerank(ctx context.Context, query string, results []summary.SearchResult) ([]summary.SearchResult, error) {
	docs := make([]string, len(results))
	for i, r := range results {
		docs[i] = r.Snippet
		if docs[i] == "" {
			docs[i] = r.Title
		}
	}
	raw, status, err := c.post(ctx, "/v1/rerank", rerankRequest{
		Model:           rerankModel,
		Query:           query,
		Documents:       docs,
		TopN:            len(docs),
		ReturnDocuments: true,
	})
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &UpstreamError{Status: status, Details: raw}
	}

	body, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("rerank: unexpected response")
	}
	items, ok := body["results"].([]any)
	if !ok {
		return nil, errors.New("rerank: missing results")
	}

	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		idx, ok := m["index"].(float64)
		if !ok || int(idx) < 0 || int(idx) >= len(results) {
			continue
		}
		score, ok := m["relevance_score"].(float64)
		if !ok {
			score, _ = m["score"].(float64)
		}
		ranked = append(ranked, scored{index: int(idx), score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]summary.SearchResult, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, results[r.index])
	}
	return out, nil
}

// post sends body as JSON and decodes the reply. A non-JSON reply is returned
// as its text.
func (c *Client) post(ctx context.Context, path string, body any) (any, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var decoded any
		if err := json.Unmarshal(data, &decoded); err == nil {
			return decoded, resp.StatusCode, nil
		}
	}
	return string(data), resp.StatusCode, nil
}

// normalize accepts both data.webPages.value and top-level results layouts.
func normalize(raw any) *Response {
	resp := &Response{Results: []summary.SearchResult{}, Raw: raw}
	root, _ := raw.(map[string]any)
	if root == nil {
		return resp
	}

	if data, ok := root["data"].(map[string]any); ok {
		if pages, ok := data["webPages"].(map[string]any); ok {
			if value, ok := pages["value"].([]any); ok {
				resp.Results = toResults(value, "name", "title")
				resp.Summary, _ = data["summary"].(string)
			}
		}
	}
	if len(resp.Results) == 0 {
		items, _ := root["results"].([]any)
		resp.Results = toResults(items, "title", "name")
		if s, ok := root["summary"].(string); ok && s != "" {
			resp.Summary = s
		}
	}
	return resp
}

func toResults(items []any, titleKeys ...string) []summary.SearchResult {
	out := make([]summary.SearchResult, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		r := summary.SearchResult{Title: "Untitled"}
		for _, k := range titleKeys {
			if t, _ := m[k].(string); t != "" {
				r.Title = t
				break
			}
		}
		r.URL, _ = m["url"].(string)
		r.Snippet, _ = m["snippet"].(string)
		out = append(out, r)
	}
	return out
}
