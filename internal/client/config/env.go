package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvAPIBaseURL     = "HUB_API_URL"
	EnvDatabasePath   = "HUB_DB_PATH"
	EnvLogLevel       = "HUB_LOG_LEVEL"
	EnvLogFile        = "HUB_LOG_FILE"
	EnvResendCooldown = "HUB_RESEND_COOLDOWN"
)

// loadDotEnv copies variables from the given .env files (default ".env")
// into the process environment. Variables already set are left alone and
// missing files are ignored.
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// parseEnv overlays cfg with the HUB_* variables that are set and non-empty.
func parseEnv(cfg *Config) error {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv(EnvResendCooldown); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvResendCooldown, err)
		}
		cfg.ResendCooldown = d
	}
	return nil
}
