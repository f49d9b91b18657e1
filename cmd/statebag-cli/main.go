// Package main provides the entry point for statebag-cli.
//
// statebag-cli is the offline management tool for statebag-server data
// directories: inspecting, purging and destroying persisted sessions.
package main

import (
	"fmt"
	"os"

	"github.com/statebag/statebag/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
