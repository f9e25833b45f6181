package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNetAddress_String tests the String method of NetAddress
func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{
			name:     "empty address",
			addr:     NetAddress{},
			expected: "",
		},
		{
			name:     "localhost with port",
			addr:     NetAddress{Host: "localhost", Port: 8080},
			expected: "localhost:8080",
		},
		{
			name:     "IP address with port",
			addr:     NetAddress{Host: "127.0.0.1", Port: 9090},
			expected: "127.0.0.1:9090",
		},
		{
			name:     "only host no port",
			addr:     NetAddress{Host: "localhost", Port: 0},
			expected: "localhost:0",
		},
		{
			name:     "only port no host",
			addr:     NetAddress{Host: "", Port: 8080},
			expected: ":8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.addr.String()
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestNetAddress_Set tests the Set method of NetAddress
func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		errorMsg     string
		expectedAddr NetAddress
	}{
		{
			name:         "valid localhost",
			input:        "localhost:8080",
			expectError:  false,
			expectedAddr: NetAddress{Host: "localhost", Port: 8080},
		},
		{
			name:         "valid IPv4",
			input:        "127.0.0.1:9090",
			expectError:  false,
			expectedAddr: NetAddress{Host: "127.0.0.1", Port: 9090},
		},
		{
			name:        "missing colon",
			input:       "localhost8080",
			expectError: true,
			errorMsg:    "need address in a form `host:port`",
		},
		{
			name:        "multiple colons without brackets",
			input:       "host:port:extra",
			expectError: true,
			errorMsg:    "need address in a form `host:port`",
		},
		{
			name:        "non-numeric port",
			input:       "localhost:abc",
			expectError: true,
			errorMsg:    "invalid syntax",
		},
		{
			name:        "negative port",
			input:       "localhost:-1",
			expectError: true,
			errorMsg:    "port number is a positive integer",
		},
		{
			name:        "zero port",
			input:       "localhost:0",
			expectError: true,
			errorMsg:    "port number is a positive integer",
		},
		{
			name:        "invalid IP address",
			input:       "invalid.host:8080",
			expectError: true,
			errorMsg:    "incorrect IP-address provided",
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
			errorMsg:    "need address in a form `host:port`",
		},
		{
			name:        "only colon",
			input:       ":",
			expectError: true,
			errorMsg:    "invalid syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := &NetAddress{}
			err := addr.Set(tt.input)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedAddr.Host, addr.Host)
				assert.Equal(t, tt.expectedAddr.Port, addr.Port)
			}
		})
	}
}

// TestRegisterClientFlags tests parsing of the client flag set.
func TestRegisterClientFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(t *testing.T, cfg *StructuredConfig)
	}{
		{
			name: "all flags set",
			args: []string{
				"-c", "/path/to/config.yaml",
				"-s", "https://tasks.example.com",
				"-d", "/var/lib/tasks.db",
				"--request-timeout", "15s",
				"--retry-count", "0",
				"--sync-interval", "10m",
				"--hash-key", "sig_secret",
				"--log-level", "debug",
				"--log-file", "/tmp/client.log",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/path/to/config.yaml", cfg.ConfigFilePath)
				assert.Equal(t, "https://tasks.example.com", cfg.Adapter.HTTPAddress)
				assert.Equal(t, "/var/lib/tasks.db", cfg.Storage.DB.DSN)
				assert.Equal(t, 15*time.Second, cfg.Adapter.RequestTimeout)
				assert.Equal(t, 0, cfg.Adapter.RetryCount)
				assert.Equal(t, 10*time.Minute, cfg.Workers.SyncInterval)
				assert.Equal(t, "sig_secret", cfg.App.HashKey)
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, "/tmp/client.log", cfg.Log.File)
			},
		},
		{
			name: "long config flag",
			args: []string{"--config", "/path/to/config.json"},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/path/to/config.json", cfg.ConfigFilePath)
			},
		},
		{
			name: "no flags",
			args: []string{},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Empty(t, cfg.Adapter.HTTPAddress)
				assert.Empty(t, cfg.Storage.DB.DSN)
				assert.Empty(t, cfg.ConfigFilePath)
				assert.Zero(t, cfg.Adapter.RetryCount)
				assert.Zero(t, cfg.Workers.SyncInterval)
				assert.Empty(t, cfg.Server.HTTPAddress)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := pflag.NewFlagSet("client", pflag.ContinueOnError)
			fv := RegisterClientFlags(fs)
			require.NoError(t, fs.Parse(tt.args))

			cfg := fv.config()
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

// TestRegisterServerFlags tests parsing of the development server flag set.
func TestRegisterServerFlags(t *testing.T) {
	fs := pflag.NewFlagSet("devserver", pflag.ContinueOnError)
	fv := RegisterServerFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"-a", "127.0.0.1:3000",
		"--token-sign-key", "jwt_secret",
		"--token-issuer", "test_issuer",
		"--token-duration", "1h",
		"--password-hash-key", "pw_secret",
	}))

	cfg := fv.config()
	assert.Equal(t, "127.0.0.1:3000", cfg.Server.HTTPAddress)
	assert.Equal(t, "jwt_secret", cfg.App.TokenSignKey)
	assert.Equal(t, "test_issuer", cfg.App.TokenIssuer)
	assert.Equal(t, time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "pw_secret", cfg.App.PasswordHashKey)
}

// TestRegisterServerFlags_InvalidAddress verifies that a malformed listen
// address is rejected at parse time.
func TestRegisterServerFlags_InvalidAddress(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "invalid server address format", args: []string{"-a", "invalid"}},
		{name: "invalid port in server address", args: []string{"-a", "localhost:abc"}},
		{name: "non-ip host", args: []string{"--address", "example.com:80"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := pflag.NewFlagSet("devserver", pflag.ContinueOnError)
			RegisterServerFlags(fs)

			assert.Error(t, fs.Parse(tt.args))
		})
	}
}

// TestNetAddress_Type verifies the pflag type label.
func TestNetAddress_Type(t *testing.T) {
	assert.Equal(t, "host:port", (&NetAddress{}).Type())
}

// TestNetAddress_SetAndString tests the round-trip of Set and String
func TestNetAddress_SetAndString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"localhost:8080", "localhost:8080"},
		{"127.0.0.1:9090", "127.0.0.1:9090"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			addr := &NetAddress{}
			err := addr.Set(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, addr.String())
		})
	}
}
