package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr      string
	PublicBaseURL string

	BoardSize int

	ChatHistoryLimit int
	ChatMessageLimit int
	UsernameLimit    int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func Load() Config {
	return Config{
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		PublicBaseURL:    getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		BoardSize:        getenvInt("BOARD_SIZE", 5),
		ChatHistoryLimit: getenvInt("CHAT_HISTORY_LIMIT", 200),
		ChatMessageLimit: getenvInt("CHAT_MESSAGE_LIMIT", 500),
		UsernameLimit:    getenvInt("USERNAME_LIMIT", 32),
	}
}
