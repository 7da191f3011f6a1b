package cmd

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/pgupgrader/pgupgrader/pkg/upgrader"
)

// upgrade creates the upgrade command for applying pending schema steps.
//
// The command loads the upgrade directory, validates it against the ledger
// in the target database, and applies every step not yet recorded, each in
// its own transaction. A rerun against an up-to-date database is a no-op.
//
// Command flags:
//   - --path, -p: directory of upgrade files (default from config)
//   - --schema, -s: schema to upgrade (default from config)
//   - --create-schema: create the schema when missing
//   - --blocking: run on a blocking database/sql connection
//   - plus the shared connection flags (--url, --host, --port, ...)
//
// Example usage:
//
//	# Apply pending steps using DATABASE_URL
//	pgupgrader upgrade --path db/upgrades
//
//	# Apply into a dedicated schema, creating it on first run
//	pgupgrader upgrade --host db.internal --user app --database app \
//	    --schema tenant_a --create-schema
func upgrade() *cli.Command {
	return &cli.Command{
		Name:  "upgrade",
		Usage: "Apply pending schema upgrade steps",
		Description: `Apply all pending upgrade steps to the target database.

Steps are applied in file order, each inside its own transaction together
with its ledger row, so a failure leaves the database on a clean step
boundary and a rerun resumes exactly where the failure happened. Before
anything executes, the ledger is checked against the files: already-applied
steps must still be present, in order, and byte-for-byte unchanged.`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "directory containing the upgrade files",
			},
			&cli.StringFlag{
				Name:    "schema",
				Aliases: []string{"s"},
				Usage:   "schema the upgrade runs against",
			},
			&cli.BoolFlag{
				Name:  "create-schema",
				Usage: "create the schema when it does not exist",
			},
			&cli.BoolFlag{
				Name:  "blocking",
				Usage: "use a blocking database/sql connection",
			},
		}, connectionFlags...),
		Action: runUpgrade,
	}
}

func runUpgrade(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	path := cmd.String("path")
	if path == "" {
		path = cfg.Dir
	}

	schema := cmd.String("schema")
	if schema == "" {
		schema = cfg.Schema
	}

	createSchema := cmd.Bool("create-schema") || cfg.CreateSchema

	sslMode, err := resolveSSLMode(cmd, cfg)
	if err != nil {
		return err
	}

	opts := upgrader.NewOptions().
		Schema(schema).
		CreateSchema(createSchema).
		SSLMode(sslMode).
		Build()

	target := buildTarget(cmd)

	slog.Info("starting upgrade", "path", path, "schema", schema, "blocking", cmd.Bool("blocking"))

	if cmd.Bool("blocking") {
		err = upgrader.UpgradeBlocking(path, target, opts)
	} else {
		err = upgrader.Upgrade(ctx, path, target, opts)
	}
	if err != nil {
		return err
	}

	slog.Info("upgrade complete", "path", path)
	return nil
}
