package handler

import (
	"campusdesk/backend/internal/models"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type classifyRequest struct {
	Description string `json:"description"`
}

// Classify serves POST /api/classify. Degraded cases still answer 200 with MEDIUM; only an
// unexpected failure answers 500, and even then with a label.
func (h *Handler) Classify(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method Not Allowed"})
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: classify handler panicked: %v", r)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"urgency": models.DefaultUrgency.Wire()})
		}
	}()

	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("WARN: classify request without a readable body: %v", err)
		c.JSON(http.StatusOK, gin.H{"urgency": models.DefaultUrgency.Wire()})
		return
	}

	urgency := models.DefaultUrgency
	if h.Classifier != nil {
		urgency = h.Classifier.Classify(c.Request.Context(), req.Description)
	}
	c.JSON(http.StatusOK, gin.H{"urgency": urgency.Wire()})
}
