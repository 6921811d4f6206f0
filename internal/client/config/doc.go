// Package config loads runtime configuration for the hub client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables HUB_API_URL, HUB_DB_PATH, HUB_LOG_LEVEL,
//     HUB_LOG_FILE and HUB_RESEND_COOLDOWN, optionally read from a .env file.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend base URL
//	-d string   SQLite database path
//	-l string   log level
//	-f string   log file
//	-r int      resend cooldown (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the cooldown, so it may be a
// string like "60s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.cpp-hub.com",
//	  "database_path": "hubclient.db",
//	  "log_level": "info",
//	  "log_file": "",
//	  "resend_cooldown": "60s"
//	}
package config
