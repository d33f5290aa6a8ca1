package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/openkpi/kpi-manager-api/internal/constants"
	"github.com/openkpi/kpi-manager-api/internal/services"
	"github.com/openkpi/kpi-manager-api/internal/token"
)

// RequireAuth checks the bearer token and rejects tokens revoked by a
// logout.
func RequireAuth(tokens *token.Manager, auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		revoked, err := auth.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil || revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyTokenID, claims.ID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	v, ok := userID.(uint64)
	return v, ok
}

// GetTokenID retrieves the current token's JTI from context
func GetTokenID(c *gin.Context) (string, bool) {
	tokenID, exists := c.Get(constants.ContextKeyTokenID)
	if !exists {
		return "", false
	}
	v, ok := tokenID.(string)
	return v, ok
}
