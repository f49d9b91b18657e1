// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for statebag-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Session SessionSection `koanf:"session"`
	Cookie  CookieSection  `koanf:"cookie"`
	Codec   CodecSection   `koanf:"codec"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`
}

// StorageSection configures the persistence engine.
type StorageSection struct {
	// Engine selects the backing engine: "badger" or "memory".
	Engine  string `koanf:"engine"`
	DataDir string `koanf:"data_dir"`
}

// SessionSection configures session-backed stores.
type SessionSection struct {
	// TTL is the default lifetime of session entries. Zero means
	// entries never expire.
	TTL time.Duration `koanf:"ttl"`

	// SweepInterval is how often expired sessions are collected.
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// CookieName is the cookie that carries the session id.
	CookieName string `koanf:"cookie_name"`
}

// CookieSection configures cookie-backed stores.
type CookieSection struct {
	// TTL is the default lifetime of cookie entries. Zero emits
	// session cookies.
	TTL time.Duration `koanf:"ttl"`

	Path   string `koanf:"path"`
	Domain string `koanf:"domain"`
	Secure bool   `koanf:"secure"`

	// SealKey encrypts cookie values when set. At least 16 bytes.
	// Empty leaves values URL-escaped but readable.
	SealKey string `koanf:"seal_key"`
}

// CodecSection configures value serialization.
type CodecSection struct {
	// Strict makes undecodable stored values surface as errors
	// instead of falling back to their raw text.
	Strict bool `koanf:"strict"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
