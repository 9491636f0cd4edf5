package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// APIBaseURL is the practice-question service root,
	// e.g. "http://localhost:8000/api/v1".
	APIBaseURL  string
	HTTPTimeout time.Duration

	// TokenPath is where the bearer token is cached between runs.
	TokenPath string

	// PageLimit caps how many questions/submissions are fetched per request.
	PageLimit int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		APIBaseURL:  mustGetenv("API_BASE_URL"),
		HTTPTimeout: getenvDuration("HTTP_TIMEOUT", 15*time.Second),
		TokenPath:   getenvDefault("TOKEN_PATH", defaultTokenPath()),
		PageLimit:   getenvInt("PAGE_LIMIT", 100),
	}
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "access_token"
	}
	return filepath.Join(home, ".config", "satpractice", "access_token")
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}
