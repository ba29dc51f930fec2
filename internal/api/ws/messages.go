package ws

import "github.com/sirlygo/battleship/internal/game"

// Client-to-server payloads, one explicit type per action. Every payload is
// fully decoded and validated before any game state is touched.

type JoinGamePayload struct {
	Code string `json:"code"`
}

type SetUsernamePayload struct {
	Code     string `json:"code"`
	Username string `json:"username"`
}

type PlaceShipsPayload struct {
	Code  string               `json:"code"`
	Ships []game.ShipPlacement `json:"ships"`
}

type AttackPayload struct {
	Code   string     `json:"code"`
	Target game.Coord `json:"target"`
}

type ChatMessagePayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
