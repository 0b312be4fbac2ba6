package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"search-summarizer/internal/summary"
)

const summarySourceHeader = "X-Summary-Source"

type SummarizeRequest struct {
	Query   string                 `json:"query"`
	Results []summary.SearchResult `json:"results"`
}

// POST /summarize
func SummarizeHandler(chain *summary.Chain) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				zerolog.Ctx(c.Request.Context()).Error().Interface("panic", r).Msg("summarize panicked")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   fmt.Sprint(r),
					"message": "Failed to generate summary",
				})
			}
		}()

		var req SummarizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
			return
		}
		if len(req.Results) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No search results provided"})
			return
		}

		res := chain.Summarize(c.Request.Context(), req.Query, req.Results)
		c.Header(summarySourceHeader, res.Source)
		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"query":          req.Query,
			"summary":        res.Summary,
			"formatted_text": res.Summary.FormatText(),
		})
	}
}
