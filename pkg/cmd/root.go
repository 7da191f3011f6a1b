package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// Version carries the build metadata stamped into the binary.
type Version struct {
	Version   string
	Commit    string
	Timestamp string
}

// Run creates and executes the main pgupgrader CLI application with the
// given version and command-line arguments.
//
// Global Flags:
//   - --config, -c: project config file (defaults to pgupgrader.yaml)
//
// The config file is optional; when it exists it supplies defaults for the
// upgrade directory, schema, and TLS settings, all of which individual flags
// override.
func Run(ctx context.Context, version Version, args []string) error {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", version.Timestamp)
	}

	app := &cli.Command{
		Name:  "pgupgrader",
		Usage: "Apply versioned schema upgrades to PostgreSQL",
		Description: `pgupgrader applies a directory of ordered SQL upgrade files to a
PostgreSQL database, recording every applied step in a ledger table so that
reruns apply only what is still pending and any drift between the files and
the database is detected before anything executes.`,
		Version: version.Version,
		Flags: []cli.Flag{
			configFlag,
		},
		Commands: []*cli.Command{
			upgrade(),
			checkConnection(),
		},
	}

	return app.Run(ctx, args)
}
