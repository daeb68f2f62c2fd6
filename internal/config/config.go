package config

import (
	"os"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is used when NEXAGENTS_API_URL is not set.
const DefaultAPIURL = "https://api.nexagents.ai"

// Settings is the process configuration, read from the environment.
type Settings struct {
	APIURL   string
	UserID   string
	Token    string
	LogLevel string
}

// LoadSettings reads settings from the environment. A .env file in the
// working directory is loaded first when present; already-set environment
// variables win over it.
func LoadSettings() Settings {
	godotenv.Load(".env") //nolint:errcheck // optional file
	return Settings{
		APIURL:   getEnv("NEXAGENTS_API_URL", DefaultAPIURL),
		UserID:   os.Getenv("NEXAGENTS_USER"),
		Token:    os.Getenv("NEXAGENTS_TOKEN"),
		LogLevel: getEnv("NEXAGENTS_LOG_LEVEL", "info"),
	}
}

// getEnv returns the value of the environment variable named by the key.
// If the variable is not set, it returns the fallback value.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
