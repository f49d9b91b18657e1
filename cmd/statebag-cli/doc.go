// Package main provides the entry point for statebag-cli.
//
// The CLI tool provides offline access to a statebag-server data
// directory for:
//
//   - Session inspection (list, show)
//   - Session cleanup (purge, destroy)
//   - Storage statistics
//
// Usage:
//
//	statebag-cli [command] [flags]
//	statebag-cli session list --data-dir /var/lib/statebag-server/data
//	statebag-cli session purge --force
package main
