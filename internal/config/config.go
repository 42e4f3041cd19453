package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds everything the client reads from the environment.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	UserAgent      string
	StateDir       string
	RedisAddr      string
	RedisPassword  string
	ProbeWorkers   int
}

func Load() Config {
	return Config{
		APIBaseURL:     GetEnv("API_BASE_URL", "http://localhost:8000"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),
		UserAgent:      GetEnv("USER_AGENT", "MovieRealmClient/1.0"),
		StateDir:       GetEnv("STATE_DIR", defaultStateDir()),
		RedisAddr:      GetEnv("REDIS_ADDR", ""),
		RedisPassword:  GetEnv("REDIS_PASS", ""),
		ProbeWorkers:   getInt("PROBE_WORKERS", 5),
	}
}

// GetEnv retrieves values from environment files based on the key it matches,
// returns a string (value) if not empty
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".movierealm"
	}
	return filepath.Join(home, ".movierealm")
}
