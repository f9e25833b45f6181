package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// FlagValues receives the values of registered command-line flags. The
// fields are only meaningful after the owning flag set has been parsed.
type FlagValues struct {
	configPath string

	serverURL      string
	databaseDSN    string
	requestTimeout time.Duration
	retryCount     int
	syncInterval   time.Duration
	hashKey        string
	logLevel       string
	logFile        string

	listenAddress   NetAddress
	tokenSignKey    string
	tokenIssuer     string
	tokenDuration   time.Duration
	passwordHashKey string
}

// RegisterClientFlags registers the client flags on fs, typically the
// persistent flag set of the root command.
//
// Flags:
//
//	-c/--config          json or yaml file path with configs
//	-s/--server          remote server base URL
//	-d/--db              local SQLite database file
//	--request-timeout    procedure call timeout (e.g. "30s")
//	--retry-count        transport retries for failed calls
//	--sync-interval      period of the refresh worker (e.g. "5m")
//	--hash-key           procedure signing key
//	--log-level          log level (debug, info, warn, error)
//	--log-file           log file path
func RegisterClientFlags(fs *pflag.FlagSet) *FlagValues {
	fv := &FlagValues{retryCount: -1}

	fs.StringVarP(&fv.configPath, "config", "c", "", "JSON or YAML config file path")
	fs.StringVarP(&fv.serverURL, "server", "s", "", "Remote server base URL")
	fs.StringVarP(&fv.databaseDSN, "db", "d", "", "Local database file")
	fs.DurationVar(&fv.requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.IntVar(&fv.retryCount, "retry-count", -1, "Transport retries for failed calls")
	fs.DurationVar(&fv.syncInterval, "sync-interval", 0, "Refresh period (e.g., 5m)")
	fs.StringVar(&fv.hashKey, "hash-key", "", "Procedure signing key")
	fs.StringVar(&fv.logLevel, "log-level", "", "Log level")
	fs.StringVar(&fv.logFile, "log-file", "", "Log file path")

	return fv
}

// RegisterServerFlags registers the development server flags on fs.
//
// Flags:
//
//	-c/--config            json or yaml file path with configs
//	-a                     listen address in format [host]:[port]
//	--token-sign-key       token signing key
//	--token-issuer         token issuer name
//	--token-duration       token duration (e.g. "1h")
//	--password-hash-key    password hash key
//	--hash-key             procedure signature key
//	--log-level            log level
func RegisterServerFlags(fs *pflag.FlagSet) *FlagValues {
	fv := &FlagValues{retryCount: -1}

	fs.StringVarP(&fv.configPath, "config", "c", "", "JSON or YAML config file path")
	fs.VarP(&fv.listenAddress, "address", "a", "Net address host:port")
	fs.StringVar(&fv.tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&fv.tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&fv.tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.StringVar(&fv.passwordHashKey, "password-hash-key", "", "Password hash key")
	fs.StringVar(&fv.hashKey, "hash-key", "", "Procedure signature key")
	fs.StringVar(&fv.logLevel, "log-level", "", "Log level")

	return fv
}

// config converts parsed flag values into a configuration layer. Unset
// flags stay zero so they do not override other sources.
func (fv *FlagValues) config() *StructuredConfig {
	cfg := &StructuredConfig{
		App: App{
			HashKey:         fv.hashKey,
			PasswordHashKey: fv.passwordHashKey,
			TokenSignKey:    fv.tokenSignKey,
			TokenIssuer:     fv.tokenIssuer,
			TokenDuration:   fv.tokenDuration,
		},
		Adapter: Adapter{
			HTTPAddress:    fv.serverURL,
			RequestTimeout: fv.requestTimeout,
		},
		Storage: Storage{DB: DB{DSN: fv.databaseDSN}},
		Workers: Workers{SyncInterval: fv.syncInterval},
		Log: Log{
			Level: fv.logLevel,
			File:  fv.logFile,
		},
		Server:         Server{HTTPAddress: fv.listenAddress.String()},
		ConfigFilePath: fv.configPath,
	}

	if fv.retryCount >= 0 {
		cfg.Adapter.RetryCount = fv.retryCount
	}

	return cfg
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
