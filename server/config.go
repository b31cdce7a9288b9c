package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultListenAddr = ":3030"
	defaultCORSOrigin = "*"
)

type config struct {
	listenAddr string
	authToken  string
	corsOrigin string
	wsBuffer   int
	botRate    float64 // orders/s of synthetic flow; 0 disables the swarm
}

// loadConfig reads settings from the environment, with an optional .env
// file layered underneath.
func loadConfig() config {
	_ = godotenv.Load()

	return config{
		listenAddr: getEnv("LISTEN_ADDR", defaultListenAddr),
		authToken:  os.Getenv("AUTH_TOKEN"),
		corsOrigin: getEnv("CORS_ORIGIN", defaultCORSOrigin),
		wsBuffer:   int(parseIntEnv("WS_BUFFER", 32)),
		botRate:    parseFloatEnv("BOT_RATE", 0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseFloatEnv(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
