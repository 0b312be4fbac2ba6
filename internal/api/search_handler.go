package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"search-summarizer/internal/search"
)

type SearchRequest struct {
	Query      string `json:"query"`
	Count      int    `json:"count"`
	Freshness  string `json:"freshness"`
	Summary    *bool  `json:"summary"`
	DeepSearch bool   `json:"deep_search"`
	// deepSearch is the camel-case spelling used by older web clients.
	DeepSearchCamel bool `json:"deepSearch"`
}

// POST /search proxies a web search to LangSearch.
func SearchHandler(client *search.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
			return
		}

		withSummary := true
		if req.Summary != nil {
			withSummary = *req.Summary
		}
		resp, err := client.Search(c.Request.Context(), search.Request{
			Query:      req.Query,
			Count:      req.Count,
			Freshness:  req.Freshness,
			Summary:    withSummary,
			DeepSearch: req.DeepSearch || req.DeepSearchCamel,
		})

		var upstream *search.UpstreamError
		switch {
		case errors.Is(err, search.ErrNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing LANGSEARCH_API_KEY in environment."})
			return
		case errors.As(err, &upstream):
			c.JSON(upstream.Status, gin.H{"error": "Upstream error", "details": upstream.Details})
			return
		case err != nil:
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("search proxy failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Proxy failure", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":      true,
			"results": resp.Results,
			"summary": resp.Summary,
			"raw":     resp.Raw,
		})
	}
}
