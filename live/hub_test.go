package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(nil)
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn, strings.TrimPrefix(r.URL.Path, "/"))
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, room string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + room
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPublishReachesRoomSubscribers(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "georgian-open-2025")

	require.Eventually(t, func() bool { return hub.Subscribers("georgian-open-2025") == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("georgian-open-2025", "tournament.updated", map[string]int{"id": 4})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string         `json:"type"`
		Room    string         `json:"room"`
		Payload map[string]int `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(frame, &msg))
	assert.Equal(t, "tournament.updated", msg.Type)
	assert.Equal(t, "georgian-open-2025", msg.Room)
	assert.Equal(t, 4, msg.Payload["id"])
}

func TestPublishIsScopedToRoom(t *testing.T) {
	hub, srv := startHub(t)
	other := dial(t, srv, "tbilisi-cup")

	require.Eventually(t, func() bool { return hub.Subscribers("tbilisi-cup") == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("georgian-open-2025", "tournament.updated", nil)

	_ = other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := other.ReadMessage()
	require.Error(t, err)
}

func TestDisconnectLeavesRoom(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "room")

	require.Eventually(t, func() bool { return hub.Subscribers("room") == 1 }, time.Second, 10*time.Millisecond)
	conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers("room") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub(nil)
	assert.NotPanics(t, func() { hub.Publish("nobody", "rankings.calculated", nil) })
}

func TestStoppedHubReleasesConnections(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)

	served := make(chan struct{}, 2)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn, "final")
		served <- struct{}{}
	}))
	defer srv.Close()

	early := dial(t, srv, "final")
	require.Eventually(t, func() bool { return hub.Subscribers("final") == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-hub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	_ = early.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := early.ReadMessage()
	require.Error(t, err)

	late := dial(t, srv, "final")
	_ = late.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = late.ReadMessage()
	require.Error(t, err)

	for i := 0; i < 2; i++ {
		select {
		case <-served:
		case <-time.After(2 * time.Second):
			t.Fatal("Serve still blocked after the hub stopped")
		}
	}
	assert.Zero(t, hub.Subscribers("final"))
}
