package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	// HashKey is the HMAC key used to sign procedure calls.
	HashKey string
	// Version is reported by the version command.
	Version string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the remote server.
	HTTPAddress string
	// RequestTimeout is the timeout of one procedure call.
	RequestTimeout time.Duration
	// RetryCount is the number of transport-level retries.
	RetryCount int
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file used by the client.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the refresh worker runs.
	SyncInterval time.Duration
}

// ClientSync contains sync engine settings.
type ClientSync struct {
	// MinFetchInterval throttles automatic fetches per list.
	MinFetchInterval time.Duration
	// Concurrency bounds parallel list fetches during a refresh.
	Concurrency int
}

// ClientLog contains client logging settings.
type ClientLog struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Sync    ClientSync
	Log     ClientLog
}

// GetClientConfig builds and validates the client view of the merged
// structured configuration. fv carries the command-line flags registered
// with [RegisterClientFlags]; nil means no flags.
func GetClientConfig(fv *FlagValues) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(fv)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			HashKey: cfg.App.HashKey,
			Version: cfg.App.Version,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			RetryCount:     cfg.Adapter.RetryCount,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
		Sync: ClientSync{
			MinFetchInterval: cfg.Sync.MinFetchInterval,
			Concurrency:      cfg.Sync.Concurrency,
		},
		Log: ClientLog{
			Level:      cfg.Log.Level,
			File:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		},
	}
}
