package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings shared by the server and the client.
type Config struct {
	Addr         string
	DatabaseURL  string
	JWTSecret    string
	SyncDebounce time.Duration
}

// Load reads configuration from environment variables with sane defaults.
// The JWT secret is only needed where tokens are issued; callers that do
// not serve tokens pass requireSecret=false.
func Load(requireSecret bool) (Config, error) {
	cfg := Config{
		Addr:         strings.TrimSpace(os.Getenv("STUDYPLANNER_ADDR")),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:    strings.TrimSpace(os.Getenv("JWT_SECRET")),
		SyncDebounce: parseDebounce(strings.TrimSpace(os.Getenv("SYNC_DEBOUNCE"))),
	}

	if cfg.Addr == "" {
		cfg.Addr = ":5000"
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "studyplanner.db"
	}

	if cfg.SyncDebounce == 0 {
		cfg.SyncDebounce = time.Second
	}

	if requireSecret && cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parseDebounce(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
