package main

import (
	"log"

	httpapi "github.com/sirlygo/battleship/internal/api/http"
	"github.com/sirlygo/battleship/internal/api/ws"
	"github.com/sirlygo/battleship/internal/config"
	"github.com/sirlygo/battleship/internal/room"
	"github.com/sirlygo/battleship/internal/store"

	"github.com/joho/godotenv"
)

// @title 3D Battleship Match Server
// @version 1.0
// @description Room-based two-player battleship on a cubic board, played over WebSocket
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()
	mem := store.NewMemoryStore()
	rm := room.NewManager(mem, cfg, nil)
	hub := ws.NewHub(rm, cfg)
	rm.SetHub(hub)

	r := httpapi.NewRouter(rm, hub, cfg)

	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
