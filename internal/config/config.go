package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	DataDir      string // Base path for per-user plan files
	LogLevel     string

	JWTSecret string
	TokenTTL  time.Duration

	OllamaHost    string
	OllamaModel   string
	OllamaTimeout time.Duration
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8000")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ttlStr := getEnv("TOKEN_TTL_MINUTES", "30")
	ttlMinutes, err := strconv.Atoi(ttlStr)
	if err != nil {
		return nil, err
	}

	timeoutStr := getEnv("OLLAMA_TIMEOUT_SECONDS", "120")
	timeoutSeconds, err := strconv.Atoi(timeoutStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:    port,
		DatabasePath:  getEnv("DATABASE_PATH", "./users.db"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		JWTSecret:     getEnv("SECRET_KEY", "your-secret-key"),
		TokenTTL:      time.Duration(ttlMinutes) * time.Minute,
		OllamaHost:    getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3:8b"),
		OllamaTimeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
