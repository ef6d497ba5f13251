// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration knobs for the server and the cart client.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	CatalogDriver string
	PostgresDSN   string

	// Client side.
	ServerURL         string
	DebounceWindow    time.Duration
	ReconnectAttempts int
	ReconnectDelay    time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults. A .env file in
// the working directory is applied first when present.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":5001"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 10),

		CatalogDriver: getenv("CATALOG_DRIVER", "memory"),
		PostgresDSN:   getenv("POSTGRES_DSN", ""),

		ServerURL:         getenv("SERVER_URL", "http://localhost:5001"),
		DebounceWindow:    durenvms("RESCAN_DELAY_MS", 5000),
		ReconnectAttempts: atoienv("RECONNECT_ATTEMPTS", 5),
		ReconnectDelay:    durenvms("RECONNECT_DELAY_MS", 3000),
	}
}
