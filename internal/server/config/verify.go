// Package config defines the server configuration structure.
package config

import (
	"errors"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifySession(&cfg.Session); err != nil {
		return err
	}
	if err := verifyCookie(&cfg.Cookie); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Engine {
	case "badger":
		if cfg.DataDir == "" {
			return errors.New("storage.data_dir is required for the badger engine")
		}
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return errors.New("cannot create data directory: " + err.Error())
		}
	case "memory":
	default:
		return errors.New("storage.engine must be \"badger\" or \"memory\"")
	}
	return nil
}

func verifySession(cfg *SessionSection) error {
	if cfg.TTL < 0 {
		return errors.New("session.ttl must not be negative")
	}
	if cfg.SweepInterval <= 0 {
		return errors.New("session.sweep_interval must be positive")
	}
	if cfg.CookieName == "" {
		return errors.New("session.cookie_name is required")
	}
	return nil
}

func verifyCookie(cfg *CookieSection) error {
	if cfg.TTL < 0 {
		return errors.New("cookie.ttl must not be negative")
	}
	if cfg.SealKey != "" && len(cfg.SealKey) < 16 {
		return errors.New("cookie.seal_key must be at least 16 bytes")
	}
	return nil
}
