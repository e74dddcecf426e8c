package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from the caller's environment and any .env file.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"EVENTTRACKS_API_URL", "EVENTTRACKS_HTTP_TIMEOUT", "EVENTTRACKS_MAX_RETRIES",
		"EVENTTRACKS_RETRY_DELAY", "DATABASE_TYPE", "DATABASE_URL", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("GO_ENV", "production")
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eventtracks.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "eventtracks.db", cfg.DBUrl)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
[api]
url = "http://localhost:3000"
timeout_seconds = 5
max_retries = 0
retry_delay_ms = 250

[database]
type = "postgres"
url = "postgres://localhost/eventtracks"

[logging]
level = "debug"
`)
	t.Setenv("EVENTTRACKS_RETRY_DELAY", "1s")
	t.Setenv("DATABASE_URL", "postgres://db/override")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "postgres://db/override", cfg.DBUrl)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "negative retries", env: map[string]string{"EVENTTRACKS_MAX_RETRIES": "-1"}},
		{name: "bad retries", env: map[string]string{"EVENTTRACKS_MAX_RETRIES": "three"}},
		{name: "zero timeout", env: map[string]string{"EVENTTRACKS_HTTP_TIMEOUT": "0s"}},
		{name: "bad timeout", env: map[string]string{"EVENTTRACKS_HTTP_TIMEOUT": "soon"}},
		{name: "unknown db", env: map[string]string{"DATABASE_TYPE": "mysql"}},
		{name: "relative url", env: map[string]string{"EVENTTRACKS_API_URL": "/api"}},
		{name: "unknown toml key", file: "[api]\nurl_typo = \"x\"\n"},
		{name: "malformed toml", file: "[api\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "production", "warn").Info("hidden")
	assert.Zero(t, buf.Len())

	newLogger(&buf, "production", "warn").Warn("shown", "k", 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])

	buf.Reset()
	newLogger(&buf, "development", "info").Info("text")
	assert.Contains(t, buf.String(), "msg=text")
}
