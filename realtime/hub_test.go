package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidegames-golf/sidegames/logger"
)

func TestHubDeliversToUserRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logger.Discard())
	go hub.Run(ctx)

	userID := uuid.New()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Attach(conn, UserRoom(userID))
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.RoomSize(UserRoom(userID)) == 1 }, time.Second, 10*time.Millisecond)

	// Другой пользователь ничего не должен получить в эту комнату.
	hub.NotifyUser(uuid.New(), MessageCartUpdated, nil)
	hub.NotifyUser(userID, MessageCartUpdated, map[string]int{"items": 2})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]int `json:"payload"`
		RoomID  string         `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageCartUpdated, msg.Type)
	assert.Equal(t, 2, msg.Payload["items"])
	assert.Equal(t, UserRoom(userID), msg.RoomID)
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logger.Discard())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Attach(conn, "user_x")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.RoomSize("user_x") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.RoomSize("user_x") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestUserRoom(t *testing.T) {
	id := uuid.MustParse("5f0c7c1e-8a0b-4c36-9b9e-0c1f3c7a2d11")
	assert.Equal(t, "user_5f0c7c1e-8a0b-4c36-9b9e-0c1f3c7a2d11", UserRoom(id))
}
