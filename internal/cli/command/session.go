// Package command provides CLI command definitions for statebag.
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/statebag/statebag/internal/cli/output"
	"github.com/statebag/statebag/internal/session"
)

// SessionCommand returns the session subcommand group.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Inspect and manage persisted sessions",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List persisted sessions",
				Action: sessionList,
			},
			{
				Name:      "show",
				Usage:     "Show one session with its stored entries",
				ArgsUsage: "SESSION_ID",
				Action:    sessionShow,
			},
			{
				Name:  "purge",
				Usage: "Delete expired and corrupt session records",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: sessionPurge,
			},
			{
				Name:      "destroy",
				Usage:     "Delete a session record",
				ArgsUsage: "SESSION_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: sessionDestroy,
			},
		},
	}
}

// sessionRow is the list/show view of a session.
type sessionRow struct {
	ID         string `json:"id"`
	Keys       int    `json:"keys"`
	CreatedAt  string `json:"created_at"`
	ExpiresAt  string `json:"expires_at"`
	LastActive string `json:"last_active" table:"wide"`
}

func rowFromInfo(info session.Info) sessionRow {
	row := sessionRow{
		ID:         info.ID,
		Keys:       info.Keys,
		CreatedAt:  info.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt:  "never",
		LastActive: info.LastActive.UTC().Format(time.RFC3339),
	}
	if !info.ExpiresAt.IsZero() {
		row.ExpiresAt = info.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return row
}

func sessionList(c *cli.Context) error {
	engine, err := OpenEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	infos, err := session.List(ctx, engine)
	if err != nil {
		return err
	}

	rows := make([]sessionRow, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, rowFromInfo(info))
	}

	return ParseGlobalFlags(c).Formatter().Format(os.Stdout, rows)
}

func sessionShow(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("SESSION_ID is required")
	}

	engine, err := OpenEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, data, err := session.Inspect(ctx, engine, id)
	if err != nil {
		return err
	}

	type detail struct {
		sessionRow
		Entries map[string]string `json:"entries"`
	}

	return ParseGlobalFlags(c).Formatter().Format(os.Stdout, detail{
		sessionRow: rowFromInfo(info),
		Entries:    data,
	})
}

func sessionPurge(c *cli.Context) error {
	if !c.Bool("force") && !confirm("Purge all expired session records?") {
		return nil
	}

	engine, err := OpenEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	spinner := output.NewSpinner(os.Stderr, "Purging expired sessions")
	spinner.Start()

	purged, err := session.Purge(ctx, engine, time.Now())
	if err != nil {
		spinner.Fail("purge failed")
		return err
	}

	spinner.Success(fmt.Sprintf("purged %d session(s)", purged))
	return nil
}

func sessionDestroy(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("SESSION_ID is required")
	}

	if !c.Bool("force") && !confirm(fmt.Sprintf("Destroy session %s?", id)) {
		return nil
	}

	engine, err := OpenEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Verify the record exists so a typo'd id fails loudly.
	if _, _, err := session.Inspect(ctx, engine, id); err != nil {
		return err
	}

	if err := session.Remove(ctx, engine, id); err != nil {
		return err
	}

	fmt.Printf("session %s destroyed\n", id)
	return nil
}

// confirm prompts for a yes/no answer on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}
