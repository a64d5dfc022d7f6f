package feedhub_test

import (
	"campusdesk/backend/internal/feedhub"
	"campusdesk/backend/internal/models"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	snap := feedhub.NewMessage(feedhub.Snapshot{Seq: 3})
	assert.Equal(t, "snapshot", snap.Type)
	assert.Equal(t, uint64(3), snap.Seq)
	assert.NotNil(t, snap.Complaints, "empty snapshot is an empty list, not null")

	failed := feedhub.NewMessage(feedhub.Snapshot{Seq: 4, Err: errors.New("boom")})
	assert.Equal(t, "error", failed.Type)
	assert.NotEmpty(t, failed.Cause)
}

func TestWebSocketClient_StreamsSnapshots(t *testing.T) {
	// Arrange
	s := newMockStorage()
	filter := models.ComplaintFilter{UserID: "user_A"}
	s.On("ListComplaints", mock.Anything, filter, mock.Anything).
		Return([]models.Complaint{complaintFor("c1", "user_A", models.StatusPending)}, nil)
	hub, _ := startHub(t, s)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		sub, err := hub.Observe(context.Background(), filter)
		if err != nil {
			conn.Close()
			return
		}
		client := &feedhub.WebSocketClient{UserID: "user_A", Conn: conn, Sub: sub}
		client.Run()
	}))
	defer srv.Close()

	// Act
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Assert
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg feedhub.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "snapshot", msg.Type)
	assert.Equal(t, uint64(1), msg.Seq)
	require.Len(t, msg.Complaints, 1)
	assert.Equal(t, "c1", msg.Complaints[0].ID)

	s.Changes <- models.ChangeEvent{ComplaintID: "c1", UserID: "user_A", Kind: models.ChangeUpdated}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, uint64(2), msg.Seq)
}
