package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"search-summarizer/internal/config"
)

// ClientKey is the gin context key holding the authenticated client name.
const ClientKey = "client"

// BearerAuth requires a valid HS256 bearer token when cfg.Auth.JWTSecret is
// set. With no secret configured it lets every request through.
func BearerAuth(cfg *config.Config) gin.HandlerFunc {
	secret := cfg.Auth.JWTSecret
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := ParseJWT(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(ClientKey, claims.Client)
		c.Next()
	}
}
