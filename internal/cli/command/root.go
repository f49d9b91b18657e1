// Package command provides CLI command definitions for statebag.
package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/statebag/statebag/internal/cli/output"
	"github.com/statebag/statebag/internal/infra/buildinfo"
	"github.com/statebag/statebag/internal/storage"
	"github.com/statebag/statebag/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "statebag-cli",
		Usage:   "statebag command-line management tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SessionCommand(),
			SystemCommand(),
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "data-dir",
			Aliases: []string{"d"},
			Usage:   "statebag-server data directory",
			EnvVars: []string{"STATEBAG_DATA_DIR"},
			Value:   "/var/lib/statebag-server/data",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	DataDir string
	Output  string // table, json, yaml
	Wide    bool
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		DataDir: c.String("data-dir"),
		Output:  c.String("output"),
		Wide:    c.Bool("wide"),
		Verbose: c.Bool("verbose"),
	}
}

// Formatter builds the output formatter selected by the flags.
func (f *GlobalFlags) Formatter() output.Formatter {
	return output.NewFormatter(output.Format(f.Output), f.Wide)
}

// OpenEngine opens the badger engine under the configured data
// directory. The caller owns the returned engine and must Close it.
func OpenEngine(c *cli.Context) (storage.Engine, error) {
	flags := ParseGlobalFlags(c)

	log := logger.Nop()
	if flags.Verbose {
		log = logger.Default()
	}

	engine, err := storage.NewBadgerEngine(storage.DefaultBadgerConfig(flags.DataDir), log)
	if err != nil {
		return nil, fmt.Errorf("open data directory %s: %w (is the server running?)", flags.DataDir, err)
	}
	return engine, nil
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
