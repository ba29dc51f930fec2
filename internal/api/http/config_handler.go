package http

import (
	"net/http"

	"github.com/sirlygo/battleship/internal/config"
	"github.com/sirlygo/battleship/internal/game"

	"github.com/gin-gonic/gin"
)

// @Summary Get game configuration
// @Description Returns the board size and the canonical fleet catalog used by every room
// @Tags Config
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /config/game [get]
func GameConfigHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"boardSize": cfg.BoardSize,
			"ships":     game.Catalog(),
		})
	}
}
