// Package config defines the server configuration structure.
package config

import (
	"github.com/statebag/statebag/internal/core/domain"
	"github.com/statebag/statebag/internal/session"
)

// Default configuration values.
const (
	DefaultHTTPAddr = "127.0.0.1:5080"

	DefaultStorageEngine = "badger"
	DefaultDataDir       = "/var/lib/statebag-server/data"

	DefaultSessionCookieName = "statebag_sid"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
		},
		Storage: StorageSection{
			Engine:  DefaultStorageEngine,
			DataDir: DefaultDataDir,
		},
		Session: SessionSection{
			TTL:           domain.DefaultSessionTTL,
			SweepInterval: session.DefaultSweepInterval,
			CookieName:    DefaultSessionCookieName,
		},
		Cookie: CookieSection{
			TTL:  domain.DefaultCookieTTL,
			Path: "/",
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
