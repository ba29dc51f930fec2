package room

import (
	"fmt"

	"github.com/sirlygo/battleship/internal/game"
)

const (
	ResultMiss = "miss"
	ResultHit  = "hit"
	ResultSunk = "sunk"
)

// AttackOutcome is the full result of one resolved attack. It is broadcast
// to both seats and returned to the attacker. Winner takes precedence over
// Result when both are meaningful.
type AttackOutcome struct {
	Attacker string     `json:"attacker"`
	Target   game.Coord `json:"target"`
	Result   string     `json:"result"`
	ShipName string     `json:"shipName,omitempty"`
	NextTurn string     `json:"nextTurn,omitempty"`
	Winner   string     `json:"winner,omitempty"`
}

// Attack validates and applies a single attack against the room's current
// state. The attack is either rejected before being applied or fully
// applied; there is no partial state visible to either seat.
func (m *Manager) Attack(code, attackerID string, target game.Coord) (AttackOutcome, error) {
	r, ok := m.store.GetRoom(code)
	if !ok {
		return AttackOutcome{}, ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return AttackOutcome{}, ErrRoomNotFound
	}

	attacker := r.player(attackerID)
	if attacker == nil {
		return AttackOutcome{}, ErrPlayerNotInRoom
	}
	if r.Status != StatusInProgress {
		return AttackOutcome{}, ErrMatchNotInProgress
	}
	if r.Turn != attackerID {
		return AttackOutcome{}, ErrNotYourTurn
	}
	opponent := r.opponent(attackerID)
	if opponent == nil {
		return AttackOutcome{}, ErrNoOpponent
	}
	if !target.InBounds(m.cfg.BoardSize) {
		return AttackOutcome{}, ErrOutOfBounds
	}
	if _, dup := attacker.Hits[target]; dup {
		return AttackOutcome{}, ErrAlreadyTargeted
	}
	if _, dup := attacker.Misses[target]; dup {
		return AttackOutcome{}, ErrAlreadyTargeted
	}

	out := AttackOutcome{Attacker: attackerID, Target: target}

	shipName := opponent.Board.At(target)
	if shipName == "" {
		attacker.Misses[target] = struct{}{}
		out.Result = ResultMiss
	} else {
		attacker.Hits[target] = struct{}{}
		out.Result = ResultHit
		out.ShipName = shipName
		if s := opponent.ship(shipName); s != nil && game.IsSunk(*s, attacker.Hits) {
			out.Result = ResultSunk
		}
	}

	if game.AllSunk(opponent.Ships, attacker.Hits) {
		out.Winner = attackerID
		r.Turn = ""
		r.Status = StatusFinished
		r.appendSystemChat(fmt.Sprintf("%s wins the match", attacker.displayName()), m.cfg.ChatHistoryLimit)
	} else {
		r.Turn = opponent.ID
		out.NextTurn = opponent.ID
	}

	m.hub.Broadcast(code, "attackResult", out)
	return out, nil
}
