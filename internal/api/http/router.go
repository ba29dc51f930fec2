package http

import (
	"github.com/sirlygo/battleship/internal/api/ws"
	"github.com/sirlygo/battleship/internal/config"
	"github.com/sirlygo/battleship/internal/room"

	"github.com/gin-gonic/gin"
)

func NewRouter(rm *room.Manager, hub *ws.Hub, cfg config.Config) *gin.Engine {
	r := gin.Default()

	// WebSocket game channel
	r.GET("/ws", hub.HandleWS)

	r.GET("/healthz", HealthHandler())

	// --- CONFIG ENDPOINTS ---
	r.GET("/config/game", GameConfigHandler(cfg))

	// --- ROOM ENDPOINTS ---
	r.GET("/rooms/:code", RoomSnapshotHandler(rm))
	r.GET("/rooms/:code/chat", RoomChatHandler(rm))
	r.GET("/rooms/:code/qr", RoomQRHandler(rm, cfg))

	return r
}
