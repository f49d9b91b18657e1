// Package main provides the entry point for statebag-server.
//
// statebag-server is the service process for statebag: per-request
// registries of lazily-built, typed key/value stores, persisted to
// server-side sessions (badger or memory backed) or to client cookies.
//
// Configuration is loaded from defaults, an optional YAML file and
// STATEBAG_* environment variables, in that order.
package main
