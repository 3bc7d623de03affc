package realtime

import (
	"sync"

	"github.com/ArfiyaHashmi/Task-Management-System/logging"
)

// Hub is the room registry for the realtime channel. A connection may sit
// in several task rooms at once. The hub carries no authority: it never
// persists anything and never checks a sender against the chat's
// participant list.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Conn]struct{})}
}

func (h *Hub) Join(taskID string, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[taskID]
	if !ok {
		room = make(map[*Conn]struct{})
		h.rooms[taskID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) Leave(taskID string, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(taskID, c)
}

// Disconnect removes the connection from every room it belongs to and
// closes its outbound queue. Messages in flight are dropped.
func (h *Hub) Disconnect(c *Conn) {
	h.mu.Lock()
	for taskID := range h.rooms {
		h.removeLocked(taskID, c)
	}
	h.mu.Unlock()
	c.closeSend()
}

// Announce delivers payload to every other connection in the task's room.
// The sender is excluded: it already holds the message from the
// synchronous persistence response. Delivery is best-effort; a connection
// that cannot keep up is dropped rather than blocking the room.
func (h *Hub) Announce(taskID string, sender *Conn, payload []byte) {
	h.mu.RLock()
	var stale []*Conn
	for c := range h.rooms[taskID] {
		if c == sender {
			continue
		}
		if !c.enqueue(payload) {
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		logging.Logger.Warnf("Event ID: REALTIME_SLOW_CONSUMER, Description: Dropping connection in room %s with a full send buffer", taskID)
		h.Disconnect(c)
	}
}

// RoomSize reports the number of connections currently in a task's room.
func (h *Hub) RoomSize(taskID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[taskID])
}

func (h *Hub) removeLocked(taskID string, c *Conn) {
	room, ok := h.rooms[taskID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, taskID)
	}
}
