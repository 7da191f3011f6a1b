package cmd

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/pgupgrader/pgupgrader/pkg/config"
	"github.com/pgupgrader/pgupgrader/pkg/postgres"
)

// Shared flags. Connection settings follow the libpq conventions:
// DATABASE_URL supplies the whole connection string and PGPASSWORD the
// password, so neither needs to appear on the command line.
var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "the pgupgrader config file",
		Sources: cli.EnvVars("PGUPGRADER_CONFIG"),
		Value:   config.DefaultFile,
	}

	urlFlag = &cli.StringFlag{
		Name:    "url",
		Aliases: []string{"u", "connection-string"},
		Usage:   "PostgreSQL connection string (URL or keyword form)",
		Sources: cli.EnvVars("DATABASE_URL"),
	}

	hostFlag = &cli.StringFlag{
		Name:  "host",
		Usage: "database server host",
	}

	portFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "database server port",
		Value: 5432,
	}

	userFlag = &cli.StringFlag{
		Name:  "user",
		Usage: "database user",
	}

	passwordFlag = &cli.StringFlag{
		Name:    "password",
		Usage:   "database password",
		Sources: cli.EnvVars("PGPASSWORD"),
	}

	databaseFlag = &cli.StringFlag{
		Name:    "database",
		Aliases: []string{"d"},
		Usage:   "database name",
	}

	sslModeFlag = &cli.StringFlag{
		Name:  "ssl-mode",
		Usage: "TLS requirement: disable or require",
	}

	tlsFlag = &cli.BoolFlag{
		Name:  "tls",
		Usage: "require TLS (shorthand for --ssl-mode require)",
	}

	connectionFlags = []cli.Flag{
		urlFlag, hostFlag, portFlag, userFlag, passwordFlag, databaseFlag, sslModeFlag, tlsFlag,
	}
)

// loadProjectConfig reads the config file named by the root --config flag.
// A missing default file is not an error; commands then run on flags alone.
func loadProjectConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if path == config.DefaultFile {
			return &config.Config{}, nil
		}
		return nil, err
	}

	return config.LoadConfigFile(path)
}

// buildTarget assembles the connection target from the connection flags.
func buildTarget(cmd *cli.Command) postgres.Target {
	return postgres.Target{
		ConnString: cmd.String("url"),
		Host:       cmd.String("host"),
		Port:       int(cmd.Int("port")),
		User:       cmd.String("user"),
		Password:   cmd.String("password"),
		Database:   cmd.String("database"),
	}
}

// resolveSSLMode picks the TLS mode from the flags, falling back to the
// config file when neither flag is set.
func resolveSSLMode(cmd *cli.Command, cfg *config.Config) (postgres.SSLMode, error) {
	if cmd.Bool("tls") {
		return postgres.SSLRequire, nil
	}

	s := cmd.String("ssl-mode")
	if s == "" && cfg != nil {
		s = cfg.SSLMode
	}
	return postgres.ParseSSLMode(s)
}
