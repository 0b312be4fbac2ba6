package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"search-summarizer/internal/auth"
	"search-summarizer/internal/config"
	"search-summarizer/internal/search"
	"search-summarizer/internal/summary"
)

// Deps are the collaborators the handlers need. Any of them may be nil.
type Deps struct {
	Summarizer *summary.Chain
	Extractor  summary.Extractor
	Search     *search.Client
	Log        zerolog.Logger
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(deps.Log), recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins(),
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{summarySourceHeader, requestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	if deps.Summarizer == nil {
		deps.Summarizer = summary.NewDefaultChain(nil, nil, deps.Log)
	}

	r.GET("/health", healthHandler(cfg))

	protected := r.Group("/", auth.BearerAuth(cfg))
	{
		protected.POST("/summarize", SummarizeHandler(deps.Summarizer))
		protected.POST("/extract", ExtractHandler(deps.Extractor))
		protected.POST("/search", SearchHandler(deps.Search))
	}
	return r
}
