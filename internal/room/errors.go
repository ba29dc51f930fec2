package room

import "errors"

// Errors surfaced to the direct caller only, never broadcast. All are
// recoverable: the client may retry with corrected input.
var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrPlayerNotInRoom    = errors.New("player is not in this room")
	ErrAlreadyInRoom      = errors.New("player already in this room")
	ErrMatchStarted       = errors.New("match already started")
	ErrMatchNotInProgress = errors.New("match is not in progress")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrNoOpponent         = errors.New("no opponent has joined yet")
	ErrOutOfBounds        = errors.New("target coordinate out of bounds")
	ErrAlreadyTargeted    = errors.New("coordinate already targeted")
	ErrEmptyMessage       = errors.New("chat message is empty")
	ErrMessageTooLong     = errors.New("chat message too long")
	ErrEmptyUsername      = errors.New("username is empty")
	ErrUsernameTooLong    = errors.New("username too long")
)
