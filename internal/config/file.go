package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// StructuredFileConfig mirrors [StructuredConfig] for JSON and YAML files.
type StructuredFileConfig struct {
	App struct {
		HashKey         string   `json:"hash_key" yaml:"hash_key"`
		PasswordHashKey string   `json:"password_hash_key" yaml:"password_hash_key"`
		TokenSignKey    string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer     string   `json:"token_issuer" yaml:"token_issuer"`
		TokenDuration   Duration `json:"token_duration" yaml:"token_duration"`
		Version         string   `json:"version" yaml:"version"`
	} `json:"app" yaml:"app"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		RetryCount     int      `json:"retry_count" yaml:"retry_count"`
	} `json:"adapter" yaml:"adapter"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db" yaml:"db"`
	} `json:"storage" yaml:"storage"`

	Workers struct {
		SyncInterval Duration `json:"sync_interval" yaml:"sync_interval"`
	} `json:"workers" yaml:"workers"`

	Sync struct {
		MinFetchInterval Duration `json:"min_fetch_interval" yaml:"min_fetch_interval"`
		Concurrency      int      `json:"concurrency" yaml:"concurrency"`
	} `json:"sync" yaml:"sync"`

	Log struct {
		Level      string `json:"level" yaml:"level"`
		File       string `json:"file" yaml:"file"`
		MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
		MaxBackups int    `json:"max_backups" yaml:"max_backups"`
		MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
		Compress   bool   `json:"compress" yaml:"compress"`
	} `json:"log" yaml:"log"`

	Server struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"server" yaml:"server"`
}

// parseFile reads a config file from fs. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func parseFile(fs afero.Fs, path string) (*StructuredConfig, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fileCfg StructuredFileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fileCfg)
	default:
		err = json.Unmarshal(data, &fileCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
	}

	return fileCfg.config(), nil
}

func (f *StructuredFileConfig) config() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			HashKey:         f.App.HashKey,
			PasswordHashKey: f.App.PasswordHashKey,
			TokenSignKey:    f.App.TokenSignKey,
			TokenIssuer:     f.App.TokenIssuer,
			TokenDuration:   time.Duration(f.App.TokenDuration),
			Version:         f.App.Version,
		},
		Adapter: Adapter{
			HTTPAddress:    f.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(f.Adapter.RequestTimeout),
			RetryCount:     f.Adapter.RetryCount,
		},
		Storage: Storage{DB: DB{DSN: f.Storage.DB.DSN}},
		Workers: Workers{SyncInterval: time.Duration(f.Workers.SyncInterval)},
		Sync: Sync{
			MinFetchInterval: time.Duration(f.Sync.MinFetchInterval),
			Concurrency:      f.Sync.Concurrency,
		},
		Log: Log{
			Level:      f.Log.Level,
			File:       f.Log.File,
			MaxSizeMB:  f.Log.MaxSizeMB,
			MaxBackups: f.Log.MaxBackups,
			MaxAgeDays: f.Log.MaxAgeDays,
			Compress:   f.Log.Compress,
		},
		Server: Server{
			HTTPAddress:    f.Server.HTTPAddress,
			RequestTimeout: time.Duration(f.Server.RequestTimeout),
		},
	}
}

// Duration is a time.Duration that decodes from strings like "1h" or
// "30s" in JSON and YAML; bare JSON numbers are nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	tmp, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(tmp)
	return nil
}
