package realtime

import (
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

func dialTestServer(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func waitForRoomSize(t *testing.T, hub *Hub, taskID string, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.RoomSize(taskID) == want
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServeWS_BroadcastRoundTrip(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r)
	}))
	defer srv.Close()

	sender := dialTestServer(t, srv)
	receiver := dialTestServer(t, srv)

	require.NoError(t, sender.WriteJSON(Event{Event: EventJoinChat, TaskID: "t1"}))
	require.NoError(t, receiver.WriteJSON(Event{Event: EventJoinChat, TaskID: "t1"}))
	waitForRoomSize(t, hub, "t1", 2)

	payload := json.RawMessage(`{"content":"hello"}`)
	require.NoError(t, sender.WriteJSON(Event{Event: EventSendMessage, TaskID: "t1", Message: payload}))

	receiver.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Event
	require.NoError(t, receiver.ReadJSON(&got))
	assert.Equal(t, EventReceiveMessage, got.Event)
	assert.Equal(t, "t1", got.TaskID)
	assert.JSONEq(t, `{"content":"hello"}`, string(got.Message))

	// The sender must not hear its own announcement.
	sender.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var echo Event
	err := sender.ReadJSON(&echo)
	require.Error(t, err)
}

func TestServeWS_LeaveChatStopsDelivery(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r)
	}))
	defer srv.Close()

	sender := dialTestServer(t, srv)
	receiver := dialTestServer(t, srv)

	require.NoError(t, sender.WriteJSON(Event{Event: EventJoinChat, TaskID: "t1"}))
	require.NoError(t, receiver.WriteJSON(Event{Event: EventJoinChat, TaskID: "t1"}))
	waitForRoomSize(t, hub, "t1", 2)

	require.NoError(t, receiver.WriteJSON(Event{Event: EventLeaveChat, TaskID: "t1"}))
	waitForRoomSize(t, hub, "t1", 1)

	require.NoError(t, sender.WriteJSON(Event{Event: EventSendMessage, TaskID: "t1", Message: json.RawMessage(`{}`)}))

	receiver.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var got Event
	err := receiver.ReadJSON(&got)
	require.Error(t, err)
}

func TestServeWS_DisconnectCleansUpRooms(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r)
	}))
	defer srv.Close()

	ws := dialTestServer(t, srv)
	require.NoError(t, ws.WriteJSON(Event{Event: EventJoinChat, TaskID: "t1"}))
	require.NoError(t, ws.WriteJSON(Event{Event: EventJoinChat, TaskID: "t2"}))
	waitForRoomSize(t, hub, "t1", 1)
	waitForRoomSize(t, hub, "t2", 1)

	ws.Close()

	waitForRoomSize(t, hub, "t1", 0)
	waitForRoomSize(t, hub, "t2", 0)
}

func TestServeWS_MalformedFrameIsIgnored(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r)
	}))
	defer srv.Close()

	ws := dialTestServer(t, srv)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, ws.WriteJSON(Event{Event: EventJoinChat, TaskID: "t1"}))

	// The connection survived the bad frame and the join still landed.
	waitForRoomSize(t, hub, "t1", 1)
}
