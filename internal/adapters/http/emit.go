package http

import (
	"github.com/rs/zerolog/log"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
	"github.com/mxm-1x/formiqa/internal/realtime"
)

// emit pushes an event to a session room through the process-wide hub.
// Broadcast failure never fails the request: the persisted half of the
// operation has already succeeded, so we log and move on. A panic here
// means the hub was never initialized, which is a wiring bug; it still
// must not take the request down once the write has landed.
func emit(room domain.RoomID, e core.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Any("reason", r).Str("module", "http").Str("room", string(room)).
				Str("event", e.Name).Msg("broadcast skipped")
		}
	}()
	realtime.Default().Broadcast(room, e)
}
