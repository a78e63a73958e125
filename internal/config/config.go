// Package config provides configuration for the instructor console
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the console service
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Logging LoggingConfig
	CORS    CORSConfig
	JWT     JWTConfig
	Session SessionConfig

	// MaxRequestSize caps request bodies in bytes (uploads included)
	MaxRequestSize int64
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int
}

// BackendConfig points at the remote instructor and auth APIs
type BackendConfig struct {
	// BaseURL is the instructor API root, e.g. https://api.example.com/api/instructor
	BaseURL string
	// AuthBaseURL is the auth API root; falls back to BaseURL when empty
	AuthBaseURL string
	// Timeout is the fixed overall request timeout at the transport layer
	Timeout time.Duration
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds verification settings for backend-issued tokens
type JWTConfig struct {
	Secret string
}

// SessionConfig holds editing-session settings
type SessionConfig struct {
	// TTL is how long an idle session survives
	TTL time.Duration
	// MaxHistory bounds each session's undo/redo stack
	MaxHistory int
}

// Load reads configuration from environment variables.
// A .env file is honored when present.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{}

	backendURL := os.Getenv("INSTRUCTOR_API_BASE_URL")
	if backendURL == "" {
		return nil, fmt.Errorf("INSTRUCTOR_API_BASE_URL is required")
	}
	cfg.Backend.BaseURL = backendURL
	cfg.Backend.AuthBaseURL = os.Getenv("AUTH_API_BASE_URL")

	timeoutStr := os.Getenv("BACKEND_TIMEOUT")
	if timeoutStr == "" {
		timeoutStr = "10s"
	}
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
	}
	cfg.Backend.Timeout = timeout

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	cfg.Logging.Level = logLevel

	corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if corsOrigins == "" {
		cfg.CORS.AllowedOrigins = []string{"*"}
	} else {
		origins := strings.Split(corsOrigins, ",")
		cfg.CORS.AllowedOrigins = make([]string, 0, len(origins))
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, origin)
			}
		}
		if len(cfg.CORS.AllowedOrigins) == 0 {
			cfg.CORS.AllowedOrigins = []string{"*"}
		}
	}

	sessionTTLStr := os.Getenv("SESSION_TTL")
	if sessionTTLStr == "" {
		sessionTTLStr = "2h"
	}
	sessionTTL, err := time.ParseDuration(sessionTTLStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.Session.TTL = sessionTTL

	maxHistoryStr := os.Getenv("HISTORY_MAX_SNAPSHOTS")
	if maxHistoryStr == "" {
		maxHistoryStr = "50"
	}
	maxHistory, err := strconv.Atoi(maxHistoryStr)
	if err != nil || maxHistory <= 0 {
		return nil, fmt.Errorf("invalid HISTORY_MAX_SNAPSHOTS: %q", maxHistoryStr)
	}
	cfg.Session.MaxHistory = maxHistory

	maxSizeStr := os.Getenv("MAX_REQUEST_SIZE")
	if maxSizeStr == "" {
		maxSizeStr = strconv.Itoa(50 * 1024 * 1024) // uploads can carry video
	}
	maxSize, err := strconv.ParseInt(maxSizeStr, 10, 64)
	if err != nil || maxSize <= 0 {
		return nil, fmt.Errorf("invalid MAX_REQUEST_SIZE: %q", maxSizeStr)
	}
	cfg.MaxRequestSize = maxSize

	return cfg, nil
}
