package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pgupgrader/pgupgrader/pkg/postgres"
)

// checkConnection creates the check-connection command, a connectivity probe
// that connects with the same settings the upgrade command would use and
// runs a trivial query.
//
// Example usage:
//
//	pgupgrader check-connection --url postgres://app@db.internal/app
func checkConnection() *cli.Command {
	return &cli.Command{
		Name:  "check-connection",
		Usage: "Verify that the database is reachable",
		Description: `Connect to the target database and run a trivial query.

Useful in deploy pipelines to fail fast on bad credentials or network
problems before an upgrade is attempted.`,
		Flags: connectionFlags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadProjectConfig(cmd)
			if err != nil {
				return err
			}

			sslMode, err := resolveSSLMode(cmd, cfg)
			if err != nil {
				return err
			}

			sess, err := postgres.Connect(ctx, buildTarget(cmd), sslMode)
			if err != nil {
				return err
			}
			defer sess.Close(ctx)

			if err := sess.Exec(ctx, "SELECT 1"); err != nil {
				return &postgres.ConnectionError{Err: err}
			}

			fmt.Fprintln(cmd.Writer, "connection OK")
			return nil
		},
	}
}
