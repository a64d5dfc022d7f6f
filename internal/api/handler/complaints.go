package handler

import (
	"campusdesk/backend/internal/complaint"
	"campusdesk/backend/internal/localization"
	"campusdesk/backend/internal/models"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type transitionRequest struct {
	Status     string `json:"status"`
	AdminReply string `json:"adminReply"`
}

func (h *Handler) SubmitComplaint(c *gin.Context) {
	var req complaint.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, &complaint.ValidationError{Field: "request", Reason: "malformed JSON body"})
		return
	}

	created, err := h.Complaints.Submit(c.Request.Context(), principal(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.render(c, http.StatusCreated, created)
}

// ListComplaints supports ?status=&urgency=&department=&search= and ?sort=triage.
func (h *Handler) ListComplaints(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	list, err := h.Complaints.List(c.Request.Context(), principal(c), filter, c.Query("sort") == "triage")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Complaint{}
	}
	h.render(c, http.StatusOK, gin.H{"complaints": list})
}

func (h *Handler) GetComplaint(c *gin.Context) {
	found, err := h.Complaints.Get(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, found)
}

func (h *Handler) TransitionComplaint(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, &complaint.ValidationError{Field: "request", Reason: "malformed JSON body"})
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		h.respondError(c, &complaint.ValidationError{Field: "status", Reason: err.Error()})
		return
	}

	updated, err := h.Complaints.Transition(c.Request.Context(), principal(c), c.Param("id"), status, req.AdminReply)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, updated)
}

func (h *Handler) Stats(c *gin.Context) {
	st, err := h.Complaints.Stats(c.Request.Context(), principal(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func filterFromQuery(c *gin.Context) (models.ComplaintFilter, error) {
	filter := models.ComplaintFilter{
		UserID: c.Query("userId"),
		Search: c.Query("search"),
	}
	if v := c.Query("status"); v != "" {
		st, err := models.ParseStatus(v)
		if err != nil {
			return filter, &complaint.ValidationError{Field: "status", Reason: err.Error()}
		}
		filter.Status = st
	}
	if v := c.Query("urgency"); v != "" {
		u, err := models.ParseUrgency(v)
		if err != nil {
			return filter, &complaint.ValidationError{Field: "urgency", Reason: err.Error()}
		}
		filter.Urgency = u
	}
	if v := c.Query("department"); v != "" {
		d, err := models.ParseDepartment(v)
		if err != nil {
			return filter, &complaint.ValidationError{Field: "department", Reason: err.Error()}
		}
		filter.Department = d
	}
	return filter, nil
}

// render encodes before writing, so a record that cannot be encoded becomes a 500 instead of
// a success status with an empty body.
func (h *Handler) render(c *gin.Context, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("ERROR: Failed to encode response for %s: %v", c.FullPath(), err)
		h.notice(c, http.StatusInternalServerError, localization.KeyUnknown)
		return
	}
	c.Data(status, "application/json; charset=utf-8", data)
}
