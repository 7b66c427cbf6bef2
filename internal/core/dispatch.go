package core

import "github.com/mxm-1x/formiqa/internal/domain"

// Dispatcher is the outbound fan-out primitive: deliver e to every current
// member of room. Delivery is best-effort and fire-and-forget; a room with
// zero members is a silent no-op.
type Dispatcher interface {
	Broadcast(room domain.RoomID, e Event)
}
