package config

import (
	"fmt"
	"time"
)

// ServerApp holds token and hashing settings of the development server.
type ServerApp struct {
	TokenSignKey    string
	TokenIssuer     string
	TokenDuration   time.Duration
	PasswordHashKey string
	// HashKey verifies the "sig" argument of incoming calls when set.
	HashKey string
	// Version is reported by GET /api/version.
	Version string
}

// ServerHTTP holds the listen settings of the development server.
type ServerHTTP struct {
	HTTPAddress    string
	RequestTimeout time.Duration
}

// ServerConfig is the development server view of [StructuredConfig].
type ServerConfig struct {
	App    ServerApp
	Server ServerHTTP
	Log    ClientLog
}

// GetServerConfig builds and validates the development server view of the
// merged structured configuration.
func GetServerConfig(fv *FlagValues) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(fv)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := newServerConfig(cfg)
	return serverCfg, serverCfg.validate()
}

func newServerConfig(cfg *StructuredConfig) *ServerConfig {
	return &ServerConfig{
		App: ServerApp{
			TokenSignKey:    cfg.App.TokenSignKey,
			TokenIssuer:     cfg.App.TokenIssuer,
			TokenDuration:   cfg.App.TokenDuration,
			PasswordHashKey: cfg.App.PasswordHashKey,
			HashKey:         cfg.App.HashKey,
			Version:         cfg.App.Version,
		},
		Server: ServerHTTP{
			HTTPAddress:    cfg.Server.HTTPAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		Log: ClientLog{Level: cfg.Log.Level},
	}
}
