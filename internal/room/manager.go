package room

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirlygo/battleship/internal/config"
	"github.com/sirlygo/battleship/internal/game"

	"github.com/gin-gonic/gin"
)

// Store is the injected registry table keyed by room code. Its methods only
// guard the table itself; per-room serialization is the Manager's job.
type Store interface {
	GetRoom(code string) (*Room, bool)
	SaveRoom(r *Room)
	DeleteRoom(code string)
}

// Manager owns room lifecycle and dispatches every state-mutating operation
// under the target room's lock.
type Manager struct {
	store Store
	cfg   config.Config
	hub   Broadcaster

	// createMu serializes generate-check-insert so codes stay unique even
	// under concurrent creates.
	createMu sync.Mutex
}

func NewManager(s Store, cfg config.Config, hub Broadcaster) *Manager {
	return &Manager{store: s, cfg: cfg, hub: hub}
}

// SetHub injects the broadcaster after construction; the hub itself needs
// the manager first.
func (m *Manager) SetHub(hub Broadcaster) {
	m.hub = hub
}

const codeDigits = "0123456789"

func randCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeDigits[rand.Intn(len(codeDigits))]
	}
	return string(b)
}

// CreateRoom registers a new room with the creator seated and returns it.
// The 6-digit code is resampled until it does not collide with a live room.
func (m *Manager) CreateRoom(creatorID string) *Room {
	m.createMu.Lock()
	defer m.createMu.Unlock()

	var code string
	for {
		code = randCode(6)
		if _, exists := m.store.GetRoom(code); !exists {
			break
		}
	}

	r := &Room{
		Code:      code,
		Status:    StatusWaiting,
		CreatedAt: time.Now(),
		Players:   []*Player{newPlayer(creatorID)},
	}
	m.store.SaveRoom(r)
	return r
}

// JoinRoom seats a second player in an existing room. Joining a room whose
// previous match was interrupted or finished resets the survivor's fleet and
// shot history so the new pairing starts a clean match.
func (m *Manager) JoinRoom(code, playerID string) (Snapshot, error) {
	r, ok := m.store.GetRoom(code)
	if !ok {
		return Snapshot{}, ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Snapshot{}, ErrRoomNotFound
	}
	if r.player(playerID) != nil {
		return Snapshot{}, ErrAlreadyInRoom
	}
	if len(r.Players) >= MaxPlayers {
		return Snapshot{}, ErrRoomFull
	}
	if r.Status == StatusInProgress || r.Status == StatusFinished {
		r.resetMatch()
	}

	p := newPlayer(playerID)
	r.Players = append(r.Players, p)
	r.Status = StatusPlacement
	r.appendSystemChat(fmt.Sprintf("%s joined the room", p.displayName()), m.cfg.ChatHistoryLimit)

	m.hub.Broadcast(code, "playerJoined", gin.H{
		"playerId": playerID,
		"room":     r.snapshot(),
	})
	return r.snapshot(), nil
}

// SetUsername binds a cosmetic name to a seated player.
func (m *Manager) SetUsername(code, playerID, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	if len(username) > m.cfg.UsernameLimit {
		return ErrUsernameTooLong
	}

	r, ok := m.store.GetRoom(code)
	if !ok {
		return ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomNotFound
	}
	p := r.player(playerID)
	if p == nil {
		return ErrPlayerNotInRoom
	}
	p.Username = username

	m.hub.Broadcast(code, "usernameUpdate", gin.H{
		"players": r.roster(),
	})
	return nil
}

// PlaceShips validates and stores a player's fleet layout. Before the match
// starts a re-submission overwrites the previous layout; once in progress it
// is rejected. When the second player becomes ready the match starts with
// the room creator holding the turn.
func (m *Manager) PlaceShips(code, playerID string, fleet []game.ShipPlacement) error {
	r, ok := m.store.GetRoom(code)
	if !ok {
		return ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomNotFound
	}
	p := r.player(playerID)
	if p == nil {
		return ErrPlayerNotInRoom
	}
	if r.Status == StatusInProgress || r.Status == StatusFinished {
		return ErrMatchStarted
	}

	ships, board, err := game.ValidateFleet(m.cfg.BoardSize, fleet)
	if err != nil {
		return err
	}

	// Store only the normalized layout, never client-supplied coordinates.
	p.Ships = ships
	p.Board = board
	p.Ready = true

	if len(r.Players) == MaxPlayers && r.Players[0].Ready && r.Players[1].Ready {
		r.Status = StatusInProgress
		r.Turn = r.Players[0].ID
		r.appendSystemChat("all fleets placed, match started", m.cfg.ChatHistoryLimit)
		m.hub.Broadcast(code, "gameStarted", gin.H{
			"turn": r.Turn,
			"room": r.snapshot(),
		})
		return nil
	}

	m.hub.Broadcast(code, "playerReady", gin.H{
		"playerId": playerID,
		"room":     r.snapshot(),
	})
	return nil
}

// PostChat appends a user chat entry, trimming the oldest entries past the
// history limit, and broadcasts it.
func (m *Manager) PostChat(code, playerID, message string) (ChatEntry, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return ChatEntry{}, ErrEmptyMessage
	}
	if len(message) > m.cfg.ChatMessageLimit {
		return ChatEntry{}, ErrMessageTooLong
	}

	r, ok := m.store.GetRoom(code)
	if !ok {
		return ChatEntry{}, ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ChatEntry{}, ErrRoomNotFound
	}
	p := r.player(playerID)
	if p == nil {
		return ChatEntry{}, ErrPlayerNotInRoom
	}

	e := ChatEntry{
		SenderID:  p.ID,
		Username:  p.Username,
		Message:   message,
		Kind:      ChatKindUser,
		Timestamp: time.Now(),
	}
	r.appendChat(e, m.cfg.ChatHistoryLimit)

	m.hub.Broadcast(code, "chatUpdate", e)
	return e, nil
}

// RemovePlayer handles departure, graceful or abrupt. An emptied room is
// destroyed on the spot; otherwise the turn is transferred off the leaver
// and the refreshed roster is broadcast.
func (m *Manager) RemovePlayer(code, playerID string) error {
	r, ok := m.store.GetRoom(code)
	if !ok {
		return ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomNotFound
	}

	idx := -1
	for i, p := range r.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrPlayerNotInRoom
	}
	leaver := r.Players[idx]
	heldTurn := r.Turn == playerID

	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	if len(r.Players) == 0 {
		r.closed = true
		m.store.DeleteRoom(code)
		return nil
	}

	// Transfer a pending turn to the remaining opponent; a finished match
	// has no turn and stays finished.
	if heldTurn {
		r.Turn = r.Players[0].ID
	}
	if r.Status == StatusPlacement {
		r.Status = StatusWaiting
	}
	r.appendSystemChat(fmt.Sprintf("%s left the game", leaver.displayName()), m.cfg.ChatHistoryLimit)

	m.hub.Broadcast(code, "playerLeft", gin.H{
		"leaver": playerID,
		"room":   r.snapshot(),
	})
	return nil
}

// Snapshot returns the public view of a room for clients resynchronizing
// outside the broadcast path.
func (m *Manager) Snapshot(code string) (Snapshot, error) {
	r, ok := m.store.GetRoom(code)
	if !ok {
		return Snapshot{}, ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Snapshot{}, ErrRoomNotFound
	}
	return r.snapshot(), nil
}

// ChatHistory returns a copy of the room's chat log.
func (m *Manager) ChatHistory(code string) ([]ChatEntry, error) {
	r, ok := m.store.GetRoom(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRoomNotFound
	}
	out := make([]ChatEntry, len(r.Chat))
	copy(out, r.Chat)
	return out, nil
}
