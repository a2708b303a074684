package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-coach/internal/service"
)

// SessionAuthMiddleware exige un Bearer token cuyo claim sid coincida con :id.
func SessionAuthMiddleware(tokens *service.SessionTokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session tokens not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		sessionID, err := tokens.Parse(strings.TrimSpace(header[len("Bearer "):]))
		if err != nil || sessionID != c.Param("id") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Next()
	}
}
