package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMemFile(t *testing.T, fs afero.Fs, path, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o600))
}

func TestParseFile_JSON(t *testing.T) {
	// Arrange
	fs := afero.NewMemMapFs()
	writeMemFile(t, fs, "/etc/tasks/config.json", `{
		"app": { "hash_key": "sig_secret", "token_duration": "1h" },
		"adapter": { "http_address": "http://localhost:8080", "request_timeout": "30s", "retry_count": 1 },
		"storage": { "db": { "dsn": "/var/lib/tasks.db" } },
		"workers": { "sync_interval": "10m" },
		"sync": { "min_fetch_interval": "5m", "concurrency": 2 },
		"log": { "level": "warn", "max_backups": 7 }
	}`)

	// Act
	cfg, err := parseFile(fs, "/etc/tasks/config.json")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "sig_secret", cfg.App.HashKey)
	assert.Equal(t, time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "http://localhost:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 1, cfg.Adapter.RetryCount)
	assert.Equal(t, "/var/lib/tasks.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 10*time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, 5*time.Minute, cfg.Sync.MinFetchInterval)
	assert.Equal(t, 2, cfg.Sync.Concurrency)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Log.MaxBackups)
}

func TestParseFile_YAML(t *testing.T) {
	// Arrange
	fs := afero.NewMemMapFs()
	writeMemFile(t, fs, "/etc/tasks/config.yaml", `
adapter:
  http_address: https://tasks.example.com
  request_timeout: 45s
storage:
  db:
    dsn: /home/me/tasks.db
workers:
  sync_interval: 15m
server:
  http_address: 127.0.0.1:9000
`)

	// Act
	cfg, err := parseFile(fs, "/etc/tasks/config.yaml")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://tasks.example.com", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 45*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "/home/me/tasks.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 15*time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddress)
}

func TestParseFile_FileNotFound(t *testing.T) {
	cfg, err := parseFile(afero.NewMemMapFs(), "definitely-does-not-exist.json")

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error reading a config file")
}

func TestParseFile_InvalidJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeMemFile(t, fs, "bad.json", `{ this is not json }`)

	cfg, err := parseFile(fs, "bad.json")

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding config file")
}

func TestParseFile_InvalidDuration(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "json", path: "bad.json", body: `{ "workers": { "sync_interval": "not-a-duration" } }`},
		{name: "yaml", path: "bad.yml", body: "workers:\n  sync_interval: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeMemFile(t, fs, tt.path, tt.body)

			cfg, err := parseFile(fs, tt.path)

			require.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestParseFile_EmptyObject(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeMemFile(t, fs, "empty.json", `{}`)

	cfg, err := parseFile(fs, "empty.json")

	require.NoError(t, err)
	assert.Equal(t, StructuredConfig{}, *cfg)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}

func TestDuration_UnmarshalJSON_Number(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`1000000000`)))
	assert.Equal(t, time.Second, time.Duration(d))
}
