package room_test

import (
	"regexp"
	"sync"
	"testing"

	"github.com/sirlygo/battleship/internal/config"
	"github.com/sirlygo/battleship/internal/game"
	"github.com/sirlygo/battleship/internal/room"
	"github.com/sirlygo/battleship/internal/store"

	"github.com/stretchr/testify/require"
)

type hubEvent struct {
	code   string
	action string
	data   interface{}
}

type fakeHub struct {
	mu     sync.Mutex
	events []hubEvent
}

func (f *fakeHub) Broadcast(code, action string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, hubEvent{code: code, action: action, data: data})
}

func (f *fakeHub) last(action string) (hubEvent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].action == action {
			return f.events[i], true
		}
	}
	return hubEvent{}, false
}

func testConfig() config.Config {
	return config.Config{
		BoardSize:        game.DefaultBoardSize,
		ChatHistoryLimit: 200,
		ChatMessageLimit: 500,
		UsernameLimit:    32,
	}
}

func newTestManager(t *testing.T) (*room.Manager, *fakeHub) {
	t.Helper()
	hub := &fakeHub{}
	return room.NewManager(store.NewMemoryStore(), testConfig(), hub), hub
}

func run(name string, from game.Coord, axis string, length int) game.ShipPlacement {
	cells := make([]game.Coord, length)
	for i := 0; i < length; i++ {
		c := from
		switch axis {
		case "x":
			c.X += i
		case "y":
			c.Y += i
		case "z":
			c.Z += i
		}
		cells[i] = c
	}
	return game.ShipPlacement{Name: name, Cells: cells}
}

func validFleet() []game.ShipPlacement {
	return []game.ShipPlacement{
		run("Carrier", game.Coord{X: 0, Y: 0, Z: 0}, "x", 5),
		run("Battleship", game.Coord{X: 0, Y: 1, Z: 0}, "x", 4),
		run("Cruiser", game.Coord{X: 0, Y: 2, Z: 0}, "x", 3),
		run("Submarine", game.Coord{X: 0, Y: 3, Z: 0}, "x", 3),
		run("Destroyer", game.Coord{X: 0, Y: 4, Z: 0}, "x", 2),
	}
}

// startMatch creates a room with two seated players who both placed the
// canonical fleet; the creator holds the turn.
func startMatch(t *testing.T, m *room.Manager) (r *room.Room, creator, joiner string) {
	t.Helper()
	creator = "player-a"
	joiner = "player-b"
	r = m.CreateRoom(creator)
	_, err := m.JoinRoom(r.Code, joiner)
	require.NoError(t, err)
	require.NoError(t, m.PlaceShips(r.Code, creator, validFleet()))
	require.NoError(t, m.PlaceShips(r.Code, joiner, validFleet()))
	require.Equal(t, room.StatusInProgress, r.Status)
	require.Equal(t, creator, r.Turn)
	return r, creator, joiner
}

func TestCreateRoomCodes(t *testing.T) {
	m, _ := newTestManager(t)

	sixDigits := regexp.MustCompile(`^[0-9]{6}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		r := m.CreateRoom("creator")
		require.Regexp(t, sixDigits, r.Code)
		require.False(t, seen[r.Code], "room code %s issued twice", r.Code)
		seen[r.Code] = true
		require.Equal(t, room.StatusWaiting, r.Status)
		require.Len(t, r.Players, 1)
		require.Empty(t, r.Turn)
	}
}

func TestJoinRoom(t *testing.T) {
	m, hub := newTestManager(t)
	r := m.CreateRoom("a")

	_, err := m.JoinRoom("000000x", "b")
	require.ErrorIs(t, err, room.ErrRoomNotFound)

	_, err = m.JoinRoom(r.Code, "b")
	require.NoError(t, err)
	require.Equal(t, room.StatusPlacement, r.Status)
	_, ok := hub.last("playerJoined")
	require.True(t, ok)

	_, err = m.JoinRoom(r.Code, "c")
	require.ErrorIs(t, err, room.ErrRoomFull)
	require.Len(t, r.Players, 2)
}

func TestJoinRoomRejectsSeatedPlayer(t *testing.T) {
	m, _ := newTestManager(t)
	r := m.CreateRoom("a")

	_, err := m.JoinRoom(r.Code, "a")
	require.ErrorIs(t, err, room.ErrAlreadyInRoom)
	require.Len(t, r.Players, 1, "creator must not occupy both seats")

	_, err = m.JoinRoom(r.Code, "b")
	require.NoError(t, err)
	_, err = m.JoinRoom(r.Code, "b")
	require.ErrorIs(t, err, room.ErrAlreadyInRoom)
	require.Len(t, r.Players, 2)
}

func TestRejoinAfterMidMatchDepartureStartsClean(t *testing.T) {
	m, _ := newTestManager(t)
	r, a, b := startMatch(t, m)

	// build up shot history for the survivor
	_, err := m.Attack(r.Code, a, game.Coord{X: 2, Y: 2, Z: 2})
	require.NoError(t, err)
	_, err = m.Attack(r.Code, b, game.Coord{X: 3, Y: 3, Z: 3})
	require.NoError(t, err)

	require.NoError(t, m.RemovePlayer(r.Code, b))

	snap, err := m.JoinRoom(r.Code, "player-c")
	require.NoError(t, err)
	require.Equal(t, room.StatusPlacement, snap.Status)
	require.Empty(t, snap.Turn)
	require.False(t, r.Players[0].Ready, "survivor must place again")
	require.Empty(t, r.Players[0].Hits)
	require.Empty(t, r.Players[0].Misses)
	require.Nil(t, r.Players[0].Ships)

	require.NoError(t, m.PlaceShips(r.Code, a, validFleet()))
	require.NoError(t, m.PlaceShips(r.Code, "player-c", validFleet()))
	require.Equal(t, room.StatusInProgress, r.Status)
	require.Equal(t, a, r.Turn)

	// cells fired at in the abandoned match are fair targets again
	out, err := m.Attack(r.Code, a, game.Coord{X: 2, Y: 2, Z: 2})
	require.NoError(t, err)
	require.Equal(t, room.ResultMiss, out.Result)
}

func TestRejoinAfterFinishedMatchStartsClean(t *testing.T) {
	m, _ := newTestManager(t)
	r, a, b := startMatch(t, m)
	winMatch(t, m, r, a, b)

	require.NoError(t, m.RemovePlayer(r.Code, b))

	_, err := m.JoinRoom(r.Code, "player-c")
	require.NoError(t, err)
	require.Equal(t, room.StatusPlacement, r.Status)
	require.Empty(t, r.Turn)
	require.False(t, r.Players[0].Ready)
	require.Empty(t, r.Players[0].Hits)
}

func TestPlaceShipsReadiness(t *testing.T) {
	m, hub := newTestManager(t)
	r := m.CreateRoom("a")
	_, err := m.JoinRoom(r.Code, "b")
	require.NoError(t, err)

	require.NoError(t, m.PlaceShips(r.Code, "a", validFleet()))
	require.True(t, r.Players[0].Ready)
	require.Equal(t, room.StatusPlacement, r.Status)
	_, ok := hub.last("playerReady")
	require.True(t, ok)
	_, ok = hub.last("gameStarted")
	require.False(t, ok)

	require.NoError(t, m.PlaceShips(r.Code, "b", validFleet()))
	require.Equal(t, room.StatusInProgress, r.Status)
	require.Equal(t, "a", r.Turn, "creator moves first")
	_, ok = hub.last("gameStarted")
	require.True(t, ok)
}

func TestPlaceShipsRejectsInvalidFleet(t *testing.T) {
	m, _ := newTestManager(t)
	r := m.CreateRoom("a")

	fleet := validFleet()
	fleet[2] = game.ShipPlacement{
		Name: "Cruiser",
		Cells: []game.Coord{
			{X: 0, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
	}
	err := m.PlaceShips(r.Code, "a", fleet)
	require.ErrorIs(t, err, game.ErrNotStraight)
	require.False(t, r.Players[0].Ready)
	require.Nil(t, r.Players[0].Ships)
}

func TestPlaceShipsResubmission(t *testing.T) {
	m, _ := newTestManager(t)
	r := m.CreateRoom("a")
	_, err := m.JoinRoom(r.Code, "b")
	require.NoError(t, err)

	require.NoError(t, m.PlaceShips(r.Code, "a", validFleet()))
	// overwrite before the match starts is allowed
	require.NoError(t, m.PlaceShips(r.Code, "a", validFleet()))
	require.NoError(t, m.PlaceShips(r.Code, "b", validFleet()))

	// rejected once in progress
	err = m.PlaceShips(r.Code, "a", validFleet())
	require.ErrorIs(t, err, room.ErrMatchStarted)
}

func TestPlaceShipsUnknownPlayer(t *testing.T) {
	m, _ := newTestManager(t)
	r := m.CreateRoom("a")
	err := m.PlaceShips(r.Code, "stranger", validFleet())
	require.ErrorIs(t, err, room.ErrPlayerNotInRoom)
}

func TestAttackMiss(t *testing.T) {
	m, hub := newTestManager(t)
	r, a, b := startMatch(t, m)

	out, err := m.Attack(r.Code, a, game.Coord{X: 2, Y: 2, Z: 2})
	require.NoError(t, err)
	require.Equal(t, room.ResultMiss, out.Result)
	require.Equal(t, b, out.NextTurn)
	require.Empty(t, out.Winner)
	require.Equal(t, b, r.Turn)

	ev, ok := hub.last("attackResult")
	require.True(t, ok)
	require.Equal(t, out, ev.data)
}

func TestAttackHitAndSunk(t *testing.T) {
	m, _ := newTestManager(t)
	r, a, b := startMatch(t, m)

	out, err := m.Attack(r.Code, a, game.Coord{X: 0, Y: 4, Z: 0})
	require.NoError(t, err)
	require.Equal(t, room.ResultHit, out.Result)
	require.Equal(t, "Destroyer", out.ShipName)
	require.Equal(t, b, r.Turn)

	// opponent passes the turn back with a miss
	_, err = m.Attack(r.Code, b, game.Coord{X: 4, Y: 4, Z: 4})
	require.NoError(t, err)

	out, err = m.Attack(r.Code, a, game.Coord{X: 1, Y: 4, Z: 0})
	require.NoError(t, err)
	require.Equal(t, room.ResultSunk, out.Result)
	require.Equal(t, "Destroyer", out.ShipName)
	require.Empty(t, out.Winner)
}

func TestAttackTurnEnforcement(t *testing.T) {
	m, _ := newTestManager(t)
	r, _, b := startMatch(t, m)

	_, err := m.Attack(r.Code, b, game.Coord{X: 0, Y: 0, Z: 0})
	require.ErrorIs(t, err, room.ErrNotYourTurn)
}

func TestAttackOutOfBounds(t *testing.T) {
	m, _ := newTestManager(t)
	r, a, _ := startMatch(t, m)

	for _, target := range []game.Coord{
		{X: 5, Y: 0, Z: 0},
		{X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: 17},
	} {
		_, err := m.Attack(r.Code, a, target)
		require.ErrorIs(t, err, room.ErrOutOfBounds)
	}
	require.Equal(t, a, r.Turn, "rejected attack must not consume the turn")
}

func TestAttackAlreadyTargeted(t *testing.T) {
	m, _ := newTestManager(t)
	r, a, b := startMatch(t, m)

	target := game.Coord{X: 2, Y: 2, Z: 2}
	_, err := m.Attack(r.Code, a, target)
	require.NoError(t, err)

	_, err = m.Attack(r.Code, b, game.Coord{X: 3, Y: 3, Z: 3})
	require.NoError(t, err)

	_, err = m.Attack(r.Code, a, target)
	require.ErrorIs(t, err, room.ErrAlreadyTargeted)

	// a hit cell is just as much off-limits as a missed one
	_, err = m.Attack(r.Code, a, game.Coord{X: 0, Y: 0, Z: 0})
	require.NoError(t, err)
	_, err = m.Attack(r.Code, b, game.Coord{X: 4, Y: 4, Z: 4})
	require.NoError(t, err)
	_, err = m.Attack(r.Code, a, game.Coord{X: 0, Y: 0, Z: 0})
	require.ErrorIs(t, err, room.ErrAlreadyTargeted)
}

func TestAttackBeforeStart(t *testing.T) {
	m, _ := newTestManager(t)
	r := m.CreateRoom("a")
	_, err := m.JoinRoom(r.Code, "b")
	require.NoError(t, err)

	_, err = m.Attack(r.Code, "a", game.Coord{X: 0, Y: 0, Z: 0})
	require.ErrorIs(t, err, room.ErrMatchNotInProgress)
}

func TestAttackUnknownRoom(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Attack("999999", "a", game.Coord{})
	require.ErrorIs(t, err, room.ErrRoomNotFound)
}

// winMatch fires attacker shots at every fleet cell, with the defender
// missing in between to hand the turn back.
func winMatch(t *testing.T, m *room.Manager, r *room.Room, attacker, defender string) room.AttackOutcome {
	t.Helper()

	var fleetCells []game.Coord
	for _, s := range validFleet() {
		fleetCells = append(fleetCells, s.Cells...)
	}

	// defender misses on the z=4 plane, untouched by the fleet
	missAt := 0
	nextMiss := func() game.Coord {
		c := game.Coord{X: missAt % 5, Y: missAt / 5, Z: 4}
		missAt++
		return c
	}

	var last room.AttackOutcome
	for i, cell := range fleetCells {
		out, err := m.Attack(r.Code, attacker, cell)
		require.NoError(t, err)
		last = out
		if i < len(fleetCells)-1 {
			_, err = m.Attack(r.Code, defender, nextMiss())
			require.NoError(t, err)
		}
	}
	return last
}

func TestAttackWin(t *testing.T) {
	m, _ := newTestManager(t)
	r, a, b := startMatch(t, m)

	out := winMatch(t, m, r, a, b)
	require.Equal(t, a, out.Winner, "winner takes precedence over sunk")
	require.Empty(t, out.NextTurn)
	require.Equal(t, room.StatusFinished, r.Status)
	require.Empty(t, r.Turn)

	// no further attacks in a finished room, for either seat
	_, err := m.Attack(r.Code, a, game.Coord{X: 4, Y: 4, Z: 4})
	require.ErrorIs(t, err, room.ErrMatchNotInProgress)
	_, err = m.Attack(r.Code, b, game.Coord{X: 4, Y: 4, Z: 4})
	require.ErrorIs(t, err, room.ErrMatchNotInProgress)
}

func TestRemovePlayerTransfersTurn(t *testing.T) {
	m, hub := newTestManager(t)
	r, a, b := startMatch(t, m)
	require.NoError(t, m.SetUsername(r.Code, a, "alice"))

	require.NoError(t, m.RemovePlayer(r.Code, a))
	require.Equal(t, b, r.Turn, "pending turn transfers to the remaining player")
	require.Len(t, r.Players, 1)

	lastChat := r.Chat[len(r.Chat)-1]
	require.Equal(t, room.ChatKindSystem, lastChat.Kind)
	require.Contains(t, lastChat.Message, "alice")

	ev, ok := hub.last("playerLeft")
	require.True(t, ok)
	require.Equal(t, r.Code, ev.code)

	// the survivor has no one to shoot at
	_, err := m.Attack(r.Code, b, game.Coord{X: 0, Y: 0, Z: 0})
	require.ErrorIs(t, err, room.ErrNoOpponent)
}

func TestRemovePlayerKeepsFinishedMatchFinished(t *testing.T) {
	m, _ := newTestManager(t)
	r, a, b := startMatch(t, m)
	winMatch(t, m, r, a, b)

	require.NoError(t, m.RemovePlayer(r.Code, b))
	require.Empty(t, r.Turn, "a finished match is not resurrected")
	require.Equal(t, room.StatusFinished, r.Status)
}

func TestRemoveLastPlayerDestroysRoom(t *testing.T) {
	m, _ := newTestManager(t)
	r := m.CreateRoom("a")

	require.NoError(t, m.RemovePlayer(r.Code, "a"))
	_, err := m.Snapshot(r.Code)
	require.ErrorIs(t, err, room.ErrRoomNotFound)

	// the freed code may be reused by a later room
	_, err = m.JoinRoom(r.Code, "b")
	require.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestSetUsername(t *testing.T) {
	m, hub := newTestManager(t)
	r := m.CreateRoom("a")

	require.NoError(t, m.SetUsername(r.Code, "a", "  alice  "))
	require.Equal(t, "alice", r.Players[0].Username)
	_, ok := hub.last("usernameUpdate")
	require.True(t, ok)

	require.ErrorIs(t, m.SetUsername(r.Code, "a", "   "), room.ErrEmptyUsername)
	require.ErrorIs(t, m.SetUsername(r.Code, "stranger", "bob"), room.ErrPlayerNotInRoom)
}

func TestChat(t *testing.T) {
	m, hub := newTestManager(t)
	r := m.CreateRoom("a")

	e, err := m.PostChat(r.Code, "a", " hello there ")
	require.NoError(t, err)
	require.Equal(t, "hello there", e.Message)
	require.Equal(t, room.ChatKindUser, e.Kind)

	ev, ok := hub.last("chatUpdate")
	require.True(t, ok)
	require.Equal(t, e, ev.data)

	_, err = m.PostChat(r.Code, "a", "   ")
	require.ErrorIs(t, err, room.ErrEmptyMessage)

	_, err = m.PostChat(r.Code, "stranger", "hi")
	require.ErrorIs(t, err, room.ErrPlayerNotInRoom)
}

func TestChatHistoryTrimsOldest(t *testing.T) {
	hub := &fakeHub{}
	cfg := testConfig()
	cfg.ChatHistoryLimit = 5
	m := room.NewManager(store.NewMemoryStore(), cfg, hub)
	r := m.CreateRoom("a")

	for _, msg := range []string{"one", "two", "three", "four", "five", "six", "seven"} {
		_, err := m.PostChat(r.Code, "a", msg)
		require.NoError(t, err)
	}

	chat, err := m.ChatHistory(r.Code)
	require.NoError(t, err)
	require.Len(t, chat, 5)
	require.Equal(t, "three", chat[0].Message)
	require.Equal(t, "seven", chat[4].Message)
}

func TestChatMessageTooLong(t *testing.T) {
	hub := &fakeHub{}
	cfg := testConfig()
	cfg.ChatMessageLimit = 10
	m := room.NewManager(store.NewMemoryStore(), cfg, hub)
	r := m.CreateRoom("a")

	_, err := m.PostChat(r.Code, "a", "this is far too long")
	require.ErrorIs(t, err, room.ErrMessageTooLong)
}
