package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/cpphub/hubclient/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend base URL
//	-d string   SQLite database path
//	-l string   log level
//	-f string   log file
//	-r int      resend cooldown (in seconds)
//
// args is filtered with flagx.FilterArgs first so flags owned by other
// parsers (such as -c) do not cause errors.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-l", "-f", "-r"})

	fs := flag.NewFlagSet("hubclient", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFile, "f", cfg.LogFile, "append JSON logs to this file")
	cooldown := fs.Int("r", int(cfg.ResendCooldown.Seconds()), "verification resend cooldown (in seconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.ResendCooldown = time.Duration(*cooldown) * time.Second
	return nil
}
