package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/sirlygo/battleship/internal/config"
	"github.com/sirlygo/battleship/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var errInvalidPayload = errors.New("invalid payload")

// client is one websocket connection. The connection identity doubles as
// the player identity for every room the connection takes part in.
type client struct {
	id   string
	conn *websocket.Conn

	// gorilla permits one concurrent writer per connection
	mu sync.Mutex

	// room codes this connection is seated in; touched only from the
	// connection's own read loop
	rooms map[string]struct{}
}

func (c *client) send(action string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(map[string]interface{}{
		"action": action,
		"data":   data,
	})
}

// Hub tracks which connections are bound to which room and fans broadcasts
// out to them.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
	rm    RoomManager
	cfg   config.Config
}

func NewHub(rm RoomManager, cfg config.Config) *Hub {
	return &Hub{
		rooms: make(map[string]map[*client]struct{}),
		rm:    rm,
		cfg:   cfg,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// HandleWS upgrades the connection, assigns it a player identity and runs
// the read loop until the peer goes away.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("failed to upgrade connection: %v", err)
		return
	}

	cl := &client{
		id:    uuid.NewString(),
		conn:  conn,
		rooms: make(map[string]struct{}),
	}
	_ = cl.send("connected", gin.H{"playerId": cl.id})

	defer h.dropClient(cl)

	for {
		var msg struct {
			Action string          `json:"action"`
			Data   json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read error from %s: %v", cl.id, err)
			}
			return
		}
		h.dispatch(cl, msg.Action, msg.Data)
	}
}

func (h *Hub) dispatch(cl *client, action string, data json.RawMessage) {
	switch action {
	case "createGame":
		r := h.rm.CreateRoom(cl.id)
		h.register(cl, r.Code)
		_ = cl.send("gameCreated", gin.H{
			"code":      r.Code,
			"ships":     game.Catalog(),
			"boardSize": h.cfg.BoardSize,
		})

	case "joinGame":
		var p JoinGamePayload
		if err := json.Unmarshal(data, &p); err != nil || p.Code == "" {
			h.sendError(cl, action, errInvalidPayload)
			return
		}
		// only a validated member may enter the broadcast set; the direct
		// reply carries the room snapshot the joiner would otherwise miss
		snap, err := h.rm.JoinRoom(p.Code, cl.id)
		if err != nil {
			h.sendError(cl, action, err)
			return
		}
		h.register(cl, p.Code)
		_ = cl.send("gameJoined", gin.H{
			"code":      p.Code,
			"ships":     game.Catalog(),
			"boardSize": h.cfg.BoardSize,
			"room":      snap,
		})

	case "setUsername":
		var p SetUsernamePayload
		if err := json.Unmarshal(data, &p); err != nil || p.Code == "" {
			h.sendError(cl, action, errInvalidPayload)
			return
		}
		if err := h.rm.SetUsername(p.Code, cl.id, p.Username); err != nil {
			h.sendError(cl, action, err)
			return
		}
		_ = cl.send("usernameSet", gin.H{})

	case "placeShips":
		var p PlaceShipsPayload
		if err := json.Unmarshal(data, &p); err != nil || p.Code == "" {
			h.sendError(cl, action, payloadError(err))
			return
		}
		if err := h.rm.PlaceShips(p.Code, cl.id, p.Ships); err != nil {
			h.sendError(cl, action, err)
			return
		}
		_ = cl.send("shipsPlaced", gin.H{})

	case "attack":
		var p AttackPayload
		if err := json.Unmarshal(data, &p); err != nil || p.Code == "" {
			h.sendError(cl, action, payloadError(err))
			return
		}
		out, err := h.rm.Attack(p.Code, cl.id, p.Target)
		if err != nil {
			h.sendError(cl, action, err)
			return
		}
		// the room broadcast carries the same outcome to both seats
		_ = cl.send("attackAck", out)

	case "chatMessage":
		var p ChatMessagePayload
		if err := json.Unmarshal(data, &p); err != nil || p.Code == "" {
			h.sendError(cl, action, errInvalidPayload)
			return
		}
		if _, err := h.rm.PostChat(p.Code, cl.id, p.Message); err != nil {
			h.sendError(cl, action, err)
			return
		}
		_ = cl.send("chatAck", gin.H{})

	default:
		log.Printf("unknown action %q from %s", action, cl.id)
	}
}

// payloadError keeps coordinate-shape failures in the game's own error
// taxonomy; anything else undecodable is just an invalid payload.
func payloadError(err error) error {
	if err != nil && errors.Is(err, game.ErrOutOfBounds) {
		return err
	}
	return errInvalidPayload
}

func (h *Hub) sendError(cl *client, action string, err error) {
	_ = cl.send("error", gin.H{"action": action, "error": err.Error()})
}

func (h *Hub) register(cl *client, code string) {
	cl.rooms[code] = struct{}{}
	h.mu.Lock()
	if _, ok := h.rooms[code]; !ok {
		h.rooms[code] = make(map[*client]struct{})
	}
	h.rooms[code][cl] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(cl *client, code string) {
	delete(cl.rooms, code)
	h.mu.Lock()
	if conns, ok := h.rooms[code]; ok {
		delete(conns, cl)
		if len(conns) == 0 {
			delete(h.rooms, code)
		}
	}
	h.mu.Unlock()
}

// dropClient unbinds the connection everywhere and runs the departure flow
// for each room it was seated in.
func (h *Hub) dropClient(cl *client) {
	codes := make([]string, 0, len(cl.rooms))
	for code := range cl.rooms {
		codes = append(codes, code)
	}
	for _, code := range codes {
		h.unregister(cl, code)
	}
	for _, code := range codes {
		if err := h.rm.RemovePlayer(code, cl.id); err != nil {
			log.Printf("remove player %s from %s: %v", cl.id, code, err)
		}
	}
	_ = cl.conn.Close()
}

// Broadcast sends an event to every connection bound to the room. A failed
// write is logged; the failing connection's own read loop cleans it up.
func (h *Hub) Broadcast(roomCode string, action string, data interface{}) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.rooms[roomCode]))
	for cl := range h.rooms[roomCode] {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.send(action, data); err != nil {
			log.Printf("failed to send %s to %s: %v", action, cl.id, err)
		}
	}
}
