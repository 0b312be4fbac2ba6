package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"search-summarizer/internal/llm"
	"search-summarizer/internal/summary"
	"search-summarizer/internal/webtext"
)

type ExtractRequest struct {
	Text       string `json:"text"`
	SchemaType string `json:"schema_type"`
}

// POST /extract runs the SearchSummary extraction over arbitrary text.
// schema_type is accepted for compatibility and ignored.
func ExtractHandler(extractor summary.Extractor) gin.HandlerFunc {
	if extractor == nil {
		extractor = (*llm.Client)(nil)
	}
	return func(c *gin.Context) {
		var req ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
			return
		}

		text := req.Text
		if webtext.LooksLikeHTML(text) {
			text = webtext.ReadableText(text)
			if strings.TrimSpace(text) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
				return
			}
		}

		entities, err := extractEntities(c, extractor, text)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("extraction failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		if entities == nil {
			entities = []llm.Entity{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "entities": entities})
	}
}

func extractEntities(c *gin.Context, extractor summary.Extractor, text string) ([]llm.Entity, error) {
	doc, err := llm.NewDocument("extract", text)
	if err != nil {
		return nil, err
	}
	schema, err := summary.SummarySchema()
	if err != nil {
		return nil, err
	}
	return extractor.Extract(c.Request.Context(), doc, schema, llm.RawTextOptions())
}
