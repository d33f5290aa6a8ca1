package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/openkpi/kpi-manager-api/internal/audit"
	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/services"
	"github.com/openkpi/kpi-manager-api/internal/token"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	auth   *services.AuthService
	tokens *token.Manager
	audits *audit.Publisher
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService, tokens *token.Manager, audits *audit.Publisher) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, audits: audits}
}

// Login handles POST /api/login. Bad credentials answer ok=false with
// HTTP 200; the frontend keys off the flag.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "msg": "Username and password are required!"})
		return
	}

	signed, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "msg": "Incorrect username or password!"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "token": signed})
}

// Logout handles POST /api/web-api/logout. The token behind the request
// goes on the denylist until it would have expired.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	header := c.GetHeader("Authorization")
	claims, err := h.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		respondFail(c, services.ErrDataFault)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		respondFail(c, err)
		return
	}
	h.audits.Record(userID, "auth.logout", "user", userID)
	respondOK(c)
}
