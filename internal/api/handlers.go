package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"search-summarizer/internal/config"
	"search-summarizer/internal/logging"
)

// GET /health
func healthHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":            "healthy",
			"service":           logging.ServiceName,
			"gemini_configured": cfg.GeminiConfigured(),
		})
	}
}
