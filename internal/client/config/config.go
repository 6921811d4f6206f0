package config

import (
	"time"
)

// Config holds runtime settings for the hub client.
//
// Fields:
//   - APIBaseURL: origin of the C++ Hub REST backend.
//   - DatabasePath: SQLite file holding the saved session.
//   - LogLevel: stderr log level (debug, info, warn, error).
//   - LogFile: optional file receiving JSON logs at debug level.
//   - ResendCooldown: minimum spacing between verification email resends.
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	LogLevel       string
	LogFile        string
	ResendCooldown time.Duration
}

const (
	DefaultAPIBaseURL     = "https://api.cpp-hub.com"
	DefaultDatabasePath   = "hubclient.db"
	DefaultLogLevel       = "warn"
	DefaultResendCooldown = 60 * time.Second
)

// LoadDefaults populates c with the built-in defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.DatabasePath = DefaultDatabasePath
	c.LogLevel = DefaultLogLevel
	c.LogFile = ""
	c.ResendCooldown = DefaultResendCooldown
}

// LoadConfig builds a Config from defaults, then the environment (a .env
// file in the working directory is honoured), then the JSON file named by
// -c/-config, then the flags in args. Later sources win. args excludes the
// program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
