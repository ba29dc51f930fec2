package room

// Broadcaster delivers an event to every socket bound to a room. Delivery is
// fire-and-forget relative to the room mutation that produced it.
type Broadcaster interface {
	Broadcast(roomCode string, action string, data interface{})
}
