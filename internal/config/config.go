package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath             string
	LeaderboardBaseURL string
	ScoreCeiling       int
	RemoteCallBudget   time.Duration
	ProbeInterval      time.Duration
	LogLevel           string
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the engine still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		DBPath:             envOr("SCORESYNC_DB_PATH", "file:scoresync.db"),
		LeaderboardBaseURL: envOr("LEADERBOARD_BASE_URL", "https://leaderboard.pulseleap.io"),
		ScoreCeiling:       envIntOr("SCORE_CEILING", 10000),
		RemoteCallBudget:   time.Duration(envIntOr("REMOTE_CALL_BUDGET_MS", 1000)) * time.Millisecond,
		ProbeInterval:      time.Duration(envIntOr("CONNECTIVITY_PROBE_SECONDS", 15)) * time.Second,
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("SCORESYNC_DB_PATH cannot be empty")
	}
	if c.LeaderboardBaseURL == "" {
		return fmt.Errorf("LEADERBOARD_BASE_URL cannot be empty")
	}
	if c.ScoreCeiling <= 0 {
		return fmt.Errorf("SCORE_CEILING must be positive")
	}
	if c.RemoteCallBudget <= 0 {
		return fmt.Errorf("REMOTE_CALL_BUDGET_MS must be positive")
	}
	if c.ProbeInterval <= 0 {
		return fmt.Errorf("CONNECTIVITY_PROBE_SECONDS must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
