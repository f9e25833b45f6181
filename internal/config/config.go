// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/spf13/afero"
)

// StructuredConfig is the top-level configuration container shared by the
// sync client and the development server. It is populated by merging
// defaults, an optional config file, environment variables and command-line
// flags, and then projected into role-specific views by [GetClientConfig]
// and [GetServerConfig].
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds signing keys, token parameters and the application version.
	App App `envPrefix:"APP_"`

	// Adapter holds the remote server address and transport limits used by
	// the client.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local SQLite settings of the client.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds background refresh settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Sync holds fetch throttling and fan-out settings of the sync engine.
	Sync Sync `envPrefix:"SYNC_"`

	// Log holds log level and log file rotation settings.
	Log Log `envPrefix:"LOG_"`

	// Server holds the listen address of the development server.
	Server Server `envPrefix:"SERVER_"`

	// ConfigFilePath is the optional path to a JSON or YAML configuration
	// file. Populated via the CONFIG environment variable or the
	// -c / --config flag.
	ConfigFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// HashKey is the HMAC key used to sign procedure calls (the "sig"
	// argument). Signing is disabled when empty.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// PasswordHashKey is the key the development server uses to hash
	// account passwords.
	// Env: APP_PASSWORD_HASH_KEY
	PasswordHashKey string `env:"PASSWORD_HASH_KEY"`

	// TokenSignKey is the secret used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long an issued token remains valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Adapter holds the client's view of the remote server.
type Adapter struct {
	// HTTPAddress is the base URL of the remote server. A bare host:port
	// is accepted and treated as http.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single procedure call.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RetryCount is the number of transport-level retries for a failed
	// call (connection errors and 5xx only).
	// Env: ADAPTER_RETRY_COUNT
	RetryCount int `env:"RETRY_COUNT"`
}

// Storage groups local persistence settings.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds the local database settings.
type DB struct {
	// DSN is the SQLite file path (or file: URI) of the local store.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval is the period of the automatic refresh worker.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// Sync holds sync engine settings.
type Sync struct {
	// MinFetchInterval is the minimum time between two automatic fetches of
	// the same list.
	// Env: SYNC_MIN_FETCH_INTERVAL
	MinFetchInterval time.Duration `env:"MIN_FETCH_INTERVAL"`

	// Concurrency bounds the number of list fetches a refresh runs at once.
	// Env: SYNC_CONCURRENCY
	Concurrency int `env:"CONCURRENCY"`
}

// Log holds logging settings.
type Log struct {
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`
	// File is the client log file; empty means logs/client.log next to the
	// executable.
	// Env: LOG_FILE
	File string `env:"FILE"`
	// Env: LOG_MAX_SIZE_MB
	MaxSizeMB int `env:"MAX_SIZE_MB"`
	// Env: LOG_MAX_BACKUPS
	MaxBackups int `env:"MAX_BACKUPS"`
	// Env: LOG_MAX_AGE_DAYS
	MaxAgeDays int `env:"MAX_AGE_DAYS"`
	// Env: LOG_COMPRESS
	Compress bool `env:"COMPRESS"`
}

// Server holds network settings of the development server.
type Server struct {
	// HTTPAddress is the host:port the development server listens on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds the handling of one inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// defaultConfig returns the values used when no source sets a field.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   "go-task-sync",
			TokenDuration: 24 * time.Hour,
		},
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Storage: Storage{DB: DB{DSN: "go-task-sync.db"}},
		Workers: Workers{SyncInterval: 5 * time.Minute},
		Sync: Sync{
			MinFetchInterval: 5 * time.Minute,
			Concurrency:      4,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
	}
}

// GetStructuredConfig loads and merges the configuration from all available
// sources in the following priority order (later sources override non-zero
// fields of earlier ones):
//  1. Built-in defaults
//  2. Config file (path resolved from sources 3 and 4)
//  3. Environment variables
//  4. Command-line flags registered on fv (may be nil)
func GetStructuredConfig(fv *FlagValues) (*StructuredConfig, error) {
	return newConfigBuilder(afero.NewOsFs()).
		withEnv().
		withFlags(fv).
		withFile().
		build()
}
