// Package handler exposes the complaint desk over HTTP and WebSocket.
package handler

import (
	"campusdesk/backend/internal/complaint"
	"campusdesk/backend/internal/localization"
	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserStore resolves the role of a token that does not carry one.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Handler містить залежності HTTP-шару
type Handler struct {
	Complaints *complaint.Service
	Classifier complaint.Classifier
	Users      UserStore
	Localizer  *localization.Localizer
	JWTSecret  []byte
}

func NewHandler(svc *complaint.Service, cls complaint.Classifier, users UserStore, loc *localization.Localizer, secret []byte) *Handler {
	return &Handler{Complaints: svc, Classifier: cls, Users: users, Localizer: loc, JWTSecret: secret}
}

// NewRouter wires every route onto a gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	api.Any("/classify", h.Classify)

	complaints := api.Group("/complaints", h.RequireAuth())
	complaints.POST("", h.SubmitComplaint)
	complaints.GET("", h.ListComplaints)
	complaints.GET("/stats", h.Stats)
	complaints.GET("/:id", h.GetComplaint)
	complaints.PATCH("/:id/status", h.TransitionComplaint)

	r.GET("/ws/complaints", h.RequireAuth(), h.ServeWebSocket)
	return r
}

// respondError maps a service error to an HTTP status and a localized notice.
func (h *Handler) respondError(c *gin.Context, err error) {
	lang := h.lang(c)

	var verr *complaint.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": h.Localizer.Format(lang, localization.KeyValidation, verr.Error()),
			"field": verr.Field,
		})
		return
	case errors.Is(err, complaint.ErrUnauthenticated):
		h.notice(c, http.StatusUnauthorized, localization.KeyUnauthenticated)
		return
	case errors.Is(err, complaint.ErrForbidden):
		h.notice(c, http.StatusForbidden, localization.KeyForbidden)
		return
	case errors.Is(err, complaint.ErrNotFound):
		h.notice(c, http.StatusNotFound, localization.KeyNotFound)
		return
	case errors.Is(err, complaint.ErrAlreadyClosed):
		h.notice(c, http.StatusConflict, localization.KeyAlreadyClosed)
		return
	}

	switch storage.CauseOf(err) {
	case storage.CausePermissionDenied:
		h.notice(c, http.StatusForbidden, localization.KeyPermissionDenied)
	case storage.CauseUnavailable:
		h.notice(c, http.StatusServiceUnavailable, localization.KeyUnavailable)
	case storage.CauseNetwork:
		h.notice(c, http.StatusGatewayTimeout, localization.KeyNetwork)
	case storage.CauseNotFound:
		h.notice(c, http.StatusNotFound, localization.KeyNotFound)
	default:
		h.notice(c, http.StatusInternalServerError, localization.KeyUnknown)
	}
}

func (h *Handler) notice(c *gin.Context, status int, key string) {
	c.AbortWithStatusJSON(status, gin.H{"error": h.Localizer.GetString(h.lang(c), key), "code": key})
}

func (h *Handler) lang(c *gin.Context) string {
	return h.Localizer.Match(c.GetHeader("Accept-Language"))
}
