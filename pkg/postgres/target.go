package postgres

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Target identifies the database to connect to: either a full connection
// string, or discrete parameters that get assembled into one. When
// ConnString is set it takes precedence over the discrete fields.
type Target struct {
	ConnString string

	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN returns the connection string for the target, assembling one from the
// discrete parameters when no full string was provided. Host, user and
// database are required in that case; the port defaults to 5432 and the
// password may be empty.
func (t Target) DSN() (string, error) {
	if t.ConnString != "" {
		return t.ConnString, nil
	}

	if t.Host == "" {
		return "", errors.New("host is required")
	}
	if t.User == "" {
		return "", errors.New("user is required")
	}
	if t.Database == "" {
		return "", errors.New("database is required")
	}

	port := t.Port
	if port == 0 {
		port = 5432
	}

	return fmt.Sprintf(
		"host='%s' port=%d user='%s' password='%s' dbname='%s'",
		escape(t.Host), port, escape(t.User), escape(t.Password), escape(t.Database),
	), nil
}

// escape quotes backslashes and single quotes for libpq keyword values.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// withSSLMode appends the sslmode parameter for the given mode.
func withSSLMode(dsn string, mode SSLMode) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "sslmode=" + mode.String()
	}

	return dsn + " sslmode=" + mode.String()
}
