package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visionaryvybes/Archi-sub000/internal/domain/studio"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/monitoring"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/clock"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

func newTestServer(t *testing.T) (*studio.Store, *websocket.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := studio.New(studio.Options{
		Clock: clock.NewManual(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)),
	})
	t.Cleanup(store.Close)

	router := gin.New()
	router.GET("/stream", NewHandler(store, monitoring.NewMetrics(), nil).HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return store, conn
}

// readUntil reads messages until one of type want arrives
func readUntil(t *testing.T, conn *websocket.Conn, want string) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg))
		if msg["type"] == want {
			return msg
		}
	}
}

// readAll reads until every type in want has arrived, in any order
func readAll(t *testing.T, conn *websocket.Conn, want ...string) map[string]map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	got := make(map[string]map[string]any)
	for len(got) < len(want) {
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg))
		for _, w := range want {
			if msg["type"] == w {
				got[w] = msg
			}
		}
	}
	return got
}

func send(t *testing.T, conn *websocket.Conn, msg types.WSMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func TestWelcomeAndPing(t *testing.T) {
	_, conn := newTestServer(t)

	welcome := readUntil(t, conn, "system")
	assert.Equal(t, "Connected to Visionary Studio", welcome["message"])

	send(t, conn, types.WSMessage{Type: "ping"})
	readUntil(t, conn, "pong")
}

func TestChatMessage(t *testing.T) {
	store, conn := newTestServer(t)
	readUntil(t, conn, "system")

	send(t, conn, types.WSMessage{Type: "chat", Message: "<b>Warm</b> lighting"})

	got := readAll(t, conn, "message_ack", string(studio.EventMessageAdded))
	ack := got["message_ack"]
	msg := ack["message"].(map[string]any)
	assert.Equal(t, "Warm lighting", msg["content"])
	assert.Equal(t, store.ActiveSessionID(), ack["sessionId"])
	assert.Equal(t, store.ActiveSessionID(), got[string(studio.EventMessageAdded)]["sessionId"])
}

func TestGenerateStreamsEvents(t *testing.T) {
	store, conn := newTestServer(t)
	readUntil(t, conn, "system")

	send(t, conn, types.WSMessage{Type: "generate", Message: "bright kitchen"})

	started := readUntil(t, conn, string(studio.EventGenerationStarted))
	assert.Equal(t, true, started["generation"].(map[string]any)["isGenerating"])

	created := readUntil(t, conn, string(studio.EventRenderCreated))
	render, ok := store.CurrentRender()
	require.True(t, ok)
	assert.Equal(t, render.ID, created["renderId"])
	assert.EqualValues(t, 100, created["generation"].(map[string]any)["progress"])
}

func TestErrors(t *testing.T) {
	_, conn := newTestServer(t)
	readUntil(t, conn, "system")

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"unknown type", `{"type":"dance"}`, "unknown message type"},
		{"malformed json", `{"type":`, "invalid message"},
		{"empty generate", `{"type":"generate","message":"  "}`, studio.ErrEmptyPrompt.Error()},
		{"empty chat", `{"type":"chat","message":"<br>"}`, studio.ErrEmptyMessage.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.raw)))
			msg := readUntil(t, conn, "error")
			assert.Equal(t, tt.want, msg["message"])
		})
	}
}

func TestStoreCloseDisconnects(t *testing.T) {
	store, conn := newTestServer(t)
	readUntil(t, conn, "system")

	store.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), err.Error())
			return
		}
	}
}
