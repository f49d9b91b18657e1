// Package command provides CLI command definitions for statebag.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command and global flags
//   - session.go: Session subcommand group
//   - system.go: System subcommand group
//
// The CLI operates directly on a statebag-server data directory, so
// commands expect the server to be stopped (badger holds an exclusive
// directory lock). Commands follow a consistent pattern of parsing
// flags, running against the engine, and formatting output.
package command
