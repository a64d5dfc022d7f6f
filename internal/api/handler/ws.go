package handler

import (
	"campusdesk/backend/internal/feedhub"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Дозволяє з'єднання з будь-якого домену. У продакшені налаштувати!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket streams live complaint snapshots. Query parameters narrow the stream the
// same way they narrow GET /api/complaints.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	p := principal(c)

	sub, err := h.Complaints.Observe(c.Request.Context(), p, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ERROR: Failed to upgrade observer %s: %v", p.UserID, err)
		sub.Close()
		return
	}

	client := &feedhub.WebSocketClient{UserID: p.UserID, Conn: conn, Sub: sub}
	client.Run()
}
