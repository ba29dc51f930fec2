package room

import (
	"sync"
	"time"

	"github.com/sirlygo/battleship/internal/game"
)

// MaxPlayers is the seat count of a room.
const MaxPlayers = 2

// Status is the lifecycle state of a room's match.
type Status string

const (
	StatusWaiting    Status = "waiting_for_players"
	StatusPlacement  Status = "placement"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

const (
	ChatKindUser   = "user"
	ChatKindSystem = "system"
)

// Player is one seat in a room. Hits and Misses record the coordinates this
// player has fired at on the opponent's board, not damage taken.
type Player struct {
	ID       string
	Username string
	Ready    bool
	Board    game.Board
	Ships    []game.ShipPlacement
	Hits     map[game.Coord]struct{}
	Misses   map[game.Coord]struct{}
}

func newPlayer(id string) *Player {
	return &Player{
		ID:     id,
		Hits:   map[game.Coord]struct{}{},
		Misses: map[game.Coord]struct{}{},
	}
}

func (p *Player) displayName() string {
	if p.Username != "" {
		return p.Username
	}
	if len(p.ID) > 8 {
		return "player-" + p.ID[:8]
	}
	return "player-" + p.ID
}

func (p *Player) ship(name string) *game.ShipPlacement {
	for i := range p.Ships {
		if p.Ships[i].Name == name {
			return &p.Ships[i]
		}
	}
	return nil
}

type ChatEntry struct {
	SenderID  string    `json:"senderId,omitempty"`
	Username  string    `json:"username,omitempty"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// Room is the authoritative state for one match. All mutations go through
// the Manager while holding mu, so at most one state-mutating operation is
// in flight per room at a time.
type Room struct {
	mu sync.Mutex

	Code      string
	Players   []*Player
	Turn      string
	Status    Status
	Chat      []ChatEntry
	CreatedAt time.Time

	// closed marks a room deleted from the store; a caller that resolved
	// the pointer before deletion must treat it as gone.
	closed bool
}

func (r *Room) player(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) opponent(id string) *Player {
	for _, p := range r.Players {
		if p.ID != id {
			return p
		}
	}
	return nil
}

func (r *Room) appendChat(e ChatEntry, limit int) {
	r.Chat = append(r.Chat, e)
	if limit > 0 && len(r.Chat) > limit {
		r.Chat = r.Chat[len(r.Chat)-limit:]
	}
}

func (r *Room) appendSystemChat(msg string, limit int) ChatEntry {
	e := ChatEntry{
		Message:   msg,
		Kind:      ChatKindSystem,
		Timestamp: time.Now(),
	}
	r.appendChat(e, limit)
	return e
}

// resetMatch clears all match progress so the seated players start over:
// fleets, boards and shot history are discarded and nobody is ready. The
// room itself (code, chat) survives. callers hold mu
func (r *Room) resetMatch() {
	r.Turn = ""
	for _, p := range r.Players {
		p.Ready = false
		p.Ships = nil
		p.Board = game.Board{}
		p.Hits = map[game.Coord]struct{}{}
		p.Misses = map[game.Coord]struct{}{}
	}
}

// PlayerInfo is the broadcast-safe view of a seat.
type PlayerInfo struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Ready    bool   `json:"ready"`
}

// Snapshot is an idempotent full view of a room's public state. Broadcasts
// carry it so a client that misses one message is corrected by the next.
type Snapshot struct {
	Code      string       `json:"code"`
	Status    Status       `json:"status"`
	Turn      string       `json:"turn,omitempty"`
	Players   []PlayerInfo `json:"players"`
	CreatedAt time.Time    `json:"createdAt"`
}

// callers hold mu
func (r *Room) roster() []PlayerInfo {
	out := make([]PlayerInfo, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, PlayerInfo{ID: p.ID, Username: p.Username, Ready: p.Ready})
	}
	return out
}

// callers hold mu
func (r *Room) snapshot() Snapshot {
	return Snapshot{
		Code:      r.Code,
		Status:    r.Status,
		Turn:      r.Turn,
		Players:   r.roster(),
		CreatedAt: r.CreatedAt,
	}
}
