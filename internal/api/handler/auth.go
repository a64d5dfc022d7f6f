package handler

import (
	"campusdesk/backend/internal/auth"
	"campusdesk/backend/internal/localization"
	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// RequireAuth validates the bearer token (or the "token" query parameter used by browser
// WebSocket clients) and stores the principal in the gin context.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			h.notice(c, http.StatusUnauthorized, localization.KeyUnauthenticated)
			return
		}

		claims, err := auth.ParseToken(h.JWTSecret, tokenString)
		if err != nil {
			h.notice(c, http.StatusUnauthorized, localization.KeyUnauthenticated)
			return
		}

		p := claims.Principal()
		if p.Role == "" {
			p.Role = h.resolveRole(c, p.UserID)
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// resolveRole looks the role up in the users table; unknown users are students.
func (h *Handler) resolveRole(c *gin.Context, userID string) string {
	if h.Users == nil {
		return models.RoleStudent
	}
	user, err := h.Users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if !storage.IsNotFound(err) {
			log.Printf("WARN: Failed to resolve role for %s: %v", userID, err)
		}
		return models.RoleStudent
	}
	if user.Role == "" {
		return models.RoleStudent
	}
	return user.Role
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return c.Query("token")
}

func principal(c *gin.Context) *models.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*models.Principal)
	return p
}
