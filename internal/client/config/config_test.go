package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIBaseURL, EnvDatabasePath, EnvLogLevel, EnvLogFile, EnvResendCooldown} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	want := Config{
		APIBaseURL:     "https://api.cpp-hub.com",
		DatabasePath:   "hubclient.db",
		LogLevel:       "warn",
		ResendCooldown: 60 * time.Second,
	}
	assert.Empty(t, cmp.Diff(want, c))
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIBaseURL, "http://env.test")
	t.Setenv(EnvDatabasePath, "env.db")
	t.Setenv(EnvLogLevel, "warn")

	path := writeTempJSON(t, "", "", map[string]any{
		"database_path":   "json.db",
		"log_file":        "json.log",
		"resend_cooldown": "2m",
	})

	cfg, err := LoadConfig([]string{"-c", path, "-l", "debug"})
	require.NoError(t, err)

	want := &Config{
		APIBaseURL:     "http://env.test",
		DatabasePath:   "json.db",
		LogLevel:       "debug",
		LogFile:        "json.log",
		ResendCooldown: 2 * time.Minute,
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)

	t.Run("bad env duration", func(t *testing.T) {
		t.Setenv(EnvResendCooldown, "soon")
		_, err := LoadConfig(nil)
		assert.ErrorContains(t, err, EnvResendCooldown)
	})

	t.Run("missing json", func(t *testing.T) {
		_, err := LoadConfig([]string{"-config", filepath.Join(t.TempDir(), "nope.json")})
		assert.Error(t, err)
	})

	t.Run("bad flag value", func(t *testing.T) {
		_, err := LoadConfig([]string{"-r", "abc"})
		assert.Error(t, err)
	})
}

func TestParseEnv_EmptyValuesIgnored(t *testing.T) {
	clearEnv(t)
	cfg := &Config{APIBaseURL: "keep", ResendCooldown: time.Second}

	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, "keep", cfg.APIBaseURL)
	assert.Equal(t, time.Second, cfg.ResendCooldown)

	t.Setenv(EnvResendCooldown, "90s")
	t.Setenv(EnvLogFile, "/tmp/hub.log")
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, 90*time.Second, cfg.ResendCooldown)
	assert.Equal(t, "/tmp/hub.log", cfg.LogFile)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevel, "error")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HUB_DB_PATH=dotenv.db\nHUB_LOG_LEVEL=debug\n"), 0o600))

	// t.Setenv restores the variable afterwards; unset it so .env can fill it.
	require.NoError(t, os.Unsetenv(EnvDatabasePath))

	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "dotenv.db", os.Getenv(EnvDatabasePath))
	assert.Equal(t, "error", os.Getenv(EnvLogLevel), "existing variables win over .env")

	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
