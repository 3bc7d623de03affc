package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ArfiyaHashmi/Task-Management-System/logging"

	"github.com/gorilla/websocket"
)

const (
	EventJoinChat       = "join-chat"
	EventLeaveChat      = "leave-chat"
	EventSendMessage    = "send-message"
	EventReceiveMessage = "receive-message"
)

// Event is the wire frame for the realtime channel. Message is opaque to
// the server: the channel mirrors it to the room without validating it.
type Event struct {
	Event   string          `json:"event"`
	TaskID  string          `json:"taskId,omitempty"`
	Message json.RawMessage `json:"message,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The HTTP surface already allows any origin; the channel matches it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Conn struct {
	hub  *Hub
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

// ServeWS upgrades the request and runs the connection's pumps. It returns
// once the read pump exits, at which point the connection has left every
// room it joined.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger.Warnf("Event ID: REALTIME_UPGRADE_FAILED, Description: Websocket upgrade failed: %v", err)
		return
	}

	c := &Conn{hub: hub, ws: ws, send: make(chan []byte, sendBufferSize)}
	go c.writePump()
	c.readPump()
}

func (c *Conn) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Logger.Warnf("Event ID: REALTIME_READ_ERROR, Description: Websocket read failed: %v", err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			logging.Logger.Warnf("Event ID: REALTIME_BAD_FRAME, Description: Dropping malformed frame: %v", err)
			continue
		}

		switch event.Event {
		case EventJoinChat:
			c.hub.Join(event.TaskID, c)
		case EventLeaveChat:
			c.hub.Leave(event.TaskID, c)
		case EventSendMessage:
			payload, err := json.Marshal(Event{
				Event:   EventReceiveMessage,
				TaskID:  event.TaskID,
				Message: event.Message,
			})
			if err != nil {
				continue
			}
			c.hub.Announce(event.TaskID, c, payload)
		}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue reports false when the connection's buffer is full; the hub
// drops the connection in that case instead of blocking.
func (c *Conn) enqueue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Conn) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}
