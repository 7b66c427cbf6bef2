package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

// member pairs a live connection with its room membership. A connection is
// in at most one room; room == "" means connected but not joined.
type member struct {
	conn        core.EventConn
	room        domain.RoomID
	sessionID   domain.SessionID
	sessionCode string
}

// Hub owns every live connection and its room membership, derives presence
// counts on membership change, and fans events out to rooms. All state is
// behind one mutex: membership mutation and the presence snapshot that
// follows happen in a single critical section, so a presence broadcast
// always reflects the registry at the moment it is computed.
type Hub struct {
	mu      sync.RWMutex
	members map[core.ConnID]*member
}

func NewHub() *Hub {
	return &Hub{members: make(map[core.ConnID]*member)}
}

// Connect registers a connection in the unjoined state.
func (h *Hub) Connect(conn core.EventConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.members[conn.ID()] = &member{conn: conn}
	log.Info().Str("module", "app.hub").Str("cid", string(conn.ID())).Msg("connection registered")
}

// Disconnect removes a connection. If it held room membership the room's
// presence count is recomputed and broadcast to the remaining members; the
// departing connection does not receive it.
func (h *Hub) Disconnect(id core.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.members[id]
	if !ok {
		return
	}
	delete(h.members, id)
	if m.room != "" {
		h.broadcastPresenceLocked(m.room)
	}
	log.Info().Str("module", "app.hub").Str("cid", string(id)).Str("room", string(m.room)).Msg("connection removed")
}

// Join places the connection into room, moving it out of any prior room.
// The move is atomic: both rooms' presence counts are recomputed inside one
// critical section, so no observer sees the connection in both or neither.
// Rejoining while already joined silently moves the connection; current
// behavior, kept on purpose.
func (h *Hub) Join(id core.ConnID, room domain.RoomID, sessionID domain.SessionID, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.members[id]
	if !ok {
		return
	}
	prev := m.room
	m.room = room
	m.sessionID = sessionID
	m.sessionCode = code
	if prev != "" && prev != room {
		h.broadcastPresenceLocked(prev)
	}
	h.broadcastPresenceLocked(room)
	log.Info().Str("module", "app.hub").Str("cid", string(id)).
		Str("room", string(room)).Str("code", m.sessionCode).Msg("joined room")
}

// SessionOf returns the session a connection has joined, if any.
func (h *Hub) SessionOf(id core.ConnID) (domain.SessionID, domain.RoomID, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	m, ok := h.members[id]
	if !ok || m.room == "" {
		return "", "", false
	}
	return m.sessionID, m.room, true
}

// OnlineCount is the cardinality of a room's member set.
func (h *Hub) OnlineCount(room domain.RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.countLocked(room)
}

// Broadcast delivers e to every current member of room. Fire-and-forget:
// a send that fails on backpressure is dropped and logged, never retried.
// Zero members is a no-op.
func (h *Hub) Broadcast(room domain.RoomID, e core.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.sendToRoomLocked(room, e)
}

var _ core.Dispatcher = (*Hub)(nil)

func (h *Hub) countLocked(room domain.RoomID) int {
	n := 0
	for _, m := range h.members {
		if m.room == room {
			n++
		}
	}
	return n
}

func (h *Hub) sendToRoomLocked(room domain.RoomID, e core.Event) {
	sent, dropped := 0, 0
	for _, m := range h.members {
		if m.room != room {
			continue
		}
		if err := m.conn.TrySend(e); err != nil {
			dropped++
			continue
		}
		sent++
	}
	log.Debug().Str("module", "app.hub").Str("room", string(room)).Str("event", e.Name).
		Int("sent_to", sent).Int("dropped", dropped).Msg("broadcast")
}

// broadcastPresenceLocked is the only place presence events originate.
func (h *Hub) broadcastPresenceLocked(room domain.RoomID) {
	h.sendToRoomLocked(room, core.PresenceEvent(h.countLocked(room)))
}
