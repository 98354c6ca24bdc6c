// Package config provides configuration for go-smartsession commands.
// Values come from the environment, with an optional .env file for local
// development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Defaults for local development.
const (
	DefaultPort        = "8000"
	DefaultLogLevel    = "info"
	DefaultEngineURL   = "http://localhost:5050"
	DefaultCascadePath = "models/haarcascade_frontalface_default.xml"
)

// Config holds the server configuration.
type Config struct {
	// Port is the HTTP/WebSocket listen port.
	Port string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// EngineURL is the base URL of the landmark extraction engine.
	EngineURL string

	// CascadePath points at the Haar cascade used by the fallback face
	// detector. Empty disables the fallback.
	CascadePath string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	godotenv.Load()

	return Config{
		Port:        env("PORT", DefaultPort),
		LogLevel:    env("LOG_LEVEL", DefaultLogLevel),
		EngineURL:   env("ENGINE_URL", DefaultEngineURL),
		CascadePath: env("CASCADE_PATH", DefaultCascadePath),
	}
}

// env returns the variable's value, or fallback when unset or empty.
func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
