// Package command provides CLI command definitions for statebag.
package command

import (
	"context"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/statebag/statebag/internal/infra/buildinfo"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "System information",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show storage engine statistics",
				Action: systemStats,
			},
			{
				Name:   "version",
				Usage:  "Show version information",
				Action: systemVersion,
			},
		},
	}
}

// statsRow is the stats view of the storage engine.
type statsRow struct {
	Keys      uint64 `json:"keys"`
	TotalSize uint64 `json:"total_size"`
	LastGC    string `json:"last_gc" table:"wide"`
}

func systemStats(c *cli.Context) error {
	engine, err := OpenEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := engine.Stats(ctx)
	if err != nil {
		return err
	}

	row := statsRow{
		Keys:      stats.Keys,
		TotalSize: stats.TotalSize,
		LastGC:    "never",
	}
	if stats.LastGCTime > 0 {
		row.LastGC = time.UnixMilli(stats.LastGCTime).UTC().Format(time.RFC3339)
	}

	return ParseGlobalFlags(c).Formatter().Format(os.Stdout, row)
}

func systemVersion(c *cli.Context) error {
	return ParseGlobalFlags(c).Formatter().Format(os.Stdout, buildinfo.Get())
}
