package config

import (
	"os"
	"strconv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Env string // "development", "production"

	// Server
	ServerAddr  string
	CORSOrigins []string
	UploadDir   string

	// Matching defaults; CLI flags and API query params override per run.
	FuzzyEnabled   bool
	FuzzyThreshold int
}

// Load reads configuration from environment variables with defaults
// matching the original agent (fuzzy on, threshold 90).
func Load() *Config {
	return &Config{
		Env:            getEnv("ENV", "development"),
		ServerAddr:     getEnv("SERVER_ADDR", ":8001"),
		CORSOrigins:    []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		FuzzyEnabled:   getEnv("FUZZY_MATCH", "1") != "0",
		FuzzyThreshold: getEnvInt("FUZZY_THRESHOLD", 90),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
