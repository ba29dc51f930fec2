package ws

import (
	"github.com/sirlygo/battleship/internal/game"
	"github.com/sirlygo/battleship/internal/room"
)

// RoomManager is the slice of the room manager the hub dispatches into.
type RoomManager interface {
	CreateRoom(creatorID string) *room.Room
	JoinRoom(code, playerID string) (room.Snapshot, error)
	SetUsername(code, playerID, username string) error
	PlaceShips(code, playerID string, fleet []game.ShipPlacement) error
	Attack(code, attackerID string, target game.Coord) (room.AttackOutcome, error)
	PostChat(code, playerID, message string) (room.ChatEntry, error)
	RemovePlayer(code, playerID string) error
}
