package feedhub

import (
	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Message is the frame written to WebSocket observers.
type Message struct {
	Type       string             `json:"type"` // "snapshot" or "error"
	Seq        uint64             `json:"seq"`
	Complaints []models.Complaint `json:"complaints,omitempty"`
	Cause      storage.Cause      `json:"cause,omitempty"`
}

// NewMessage converts a snapshot into its wire frame.
func NewMessage(snap Snapshot) Message {
	if snap.Err != nil {
		return Message{Type: "error", Seq: snap.Seq, Cause: storage.CauseOf(snap.Err)}
	}
	complaints := snap.Complaints
	if complaints == nil {
		complaints = []models.Complaint{}
	}
	return Message{Type: "snapshot", Seq: snap.Seq, Complaints: complaints}
}

// WebSocketClient streams one subscription over one WebSocket connection.
type WebSocketClient struct {
	UserID string
	Conn   *websocket.Conn
	Sub    *Subscription
}

// Run запускає 'pumps' для WebSocket і блокує до закриття з'єднання.
func (c *WebSocketClient) Run() {
	go c.readPump()
	c.writePump()
}

// readPump only drains control frames; observers never send data.
func (c *WebSocketClient) readPump() {
	defer c.Sub.Close()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading from observer %s: %v", c.UserID, err)
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Sub.Close()
		c.Conn.Close()
	}()

	for {
		select {
		case snap, ok := <-c.Sub.C():
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(NewMessage(snap))
			if err != nil {
				log.Printf("Error encoding snapshot for observer %s: %v", c.UserID, err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
