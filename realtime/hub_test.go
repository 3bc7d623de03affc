package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConn(buffer int) *Conn {
	return &Conn{send: make(chan []byte, buffer)}
}

func drain(c *Conn) [][]byte {
	var got [][]byte
	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				return got
			}
			got = append(got, payload)
		default:
			return got
		}
	}
}

func TestAnnounce_ExcludesSender(t *testing.T) {
	hub := NewHub()
	sender := newTestConn(4)
	receiver := newTestConn(4)

	hub.Join("task-1", sender)
	hub.Join("task-1", receiver)

	hub.Announce("task-1", sender, []byte("hello"))

	require.Len(t, drain(receiver), 1)
	assert.Empty(t, drain(sender))
}

func TestAnnounce_ScopedToRoom(t *testing.T) {
	hub := NewHub()
	sender := newTestConn(4)
	sameRoom := newTestConn(4)
	otherRoom := newTestConn(4)

	hub.Join("task-1", sender)
	hub.Join("task-1", sameRoom)
	hub.Join("task-2", otherRoom)

	hub.Announce("task-1", sender, []byte("hello"))

	assert.Len(t, drain(sameRoom), 1)
	assert.Empty(t, drain(otherRoom))
}

func TestJoinMultipleRooms(t *testing.T) {
	hub := NewHub()
	c := newTestConn(4)
	sender := newTestConn(4)

	hub.Join("task-1", c)
	hub.Join("task-2", c)
	hub.Join("task-1", sender)
	hub.Join("task-2", sender)

	hub.Announce("task-1", sender, []byte("a"))
	hub.Announce("task-2", sender, []byte("b"))

	assert.Len(t, drain(c), 2)
}

func TestLeave_StopsDelivery(t *testing.T) {
	hub := NewHub()
	sender := newTestConn(4)
	receiver := newTestConn(4)

	hub.Join("task-1", sender)
	hub.Join("task-1", receiver)
	hub.Leave("task-1", receiver)

	hub.Announce("task-1", sender, []byte("hello"))

	assert.Empty(t, drain(receiver))
	assert.Equal(t, 1, hub.RoomSize("task-1"))
}

func TestDisconnect_RemovesFromAllRooms(t *testing.T) {
	hub := NewHub()
	c := newTestConn(4)

	hub.Join("task-1", c)
	hub.Join("task-2", c)
	require.Equal(t, 1, hub.RoomSize("task-1"))

	hub.Disconnect(c)

	assert.Equal(t, 0, hub.RoomSize("task-1"))
	assert.Equal(t, 0, hub.RoomSize("task-2"))

	// The outbound queue is closed; a second disconnect must not panic.
	hub.Disconnect(c)
}

func TestAnnounce_DropsSlowConsumer(t *testing.T) {
	hub := NewHub()
	sender := newTestConn(4)
	slow := newTestConn(1)

	hub.Join("task-1", sender)
	hub.Join("task-1", slow)

	// The first announcement fills the buffer; the second one cannot be
	// queued, so the connection is dropped from the room.
	hub.Announce("task-1", sender, []byte("one"))
	hub.Announce("task-1", sender, []byte("two"))

	assert.Equal(t, 1, hub.RoomSize("task-1"))
	assert.Len(t, drain(slow), 1)
}
