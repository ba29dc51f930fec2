package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirlygo/battleship/internal/config"
	"github.com/sirlygo/battleship/internal/room"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// @Summary Liveness probe
// @Tags Ops
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /healthz [get]
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// @Summary Get room snapshot
// @Description Full public view of a room (roster, status, turn) for clients resynchronizing after missed broadcasts
// @Tags Room
// @Produce json
// @Param code path string true "Room Code"
// @Success 200 {object} map[string]interface{}
// @Router /rooms/{code} [get]
func RoomSnapshotHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := rm.Snapshot(c.Param("code"))
		if err != nil {
			if errors.Is(err, room.ErrRoomNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": snap})
	}
}

// @Summary Get room chat history
// @Tags Room
// @Produce json
// @Param code path string true "Room Code"
// @Success 200 {object} map[string]interface{}
// @Router /rooms/{code}/chat [get]
func RoomChatHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		chat, err := rm.ChatHistory(c.Param("code"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"chat": chat})
	}
}

// @Summary Get room join QR code
// @Description PNG QR code encoding the join URL for sharing a room
// @Tags Room
// @Produce png
// @Param code path string true "Room Code"
// @Success 200 {string} binary "PNG image"
// @Router /rooms/{code}/qr [get]
func RoomQRHandler(rm *room.Manager, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")
		if _, err := rm.Snapshot(code); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		joinURL := fmt.Sprintf("%s/?room=%s", cfg.PublicBaseURL, code)
		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate QR code"})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}
