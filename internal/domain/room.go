package domain

// RoomID names a broadcast group. Rooms are implicit: one exists exactly
// while at least one connection is a member, so there is nothing to create
// or tear down.
type RoomID string

// SessionRoom builds the room id for a session. The "session:" prefix is a
// wire contract shared by the websocket path and the HTTP controllers; both
// sides must produce the identical string.
func SessionRoom(id SessionID) RoomID {
	return RoomID("session:" + string(id))
}
