package postgres

import (
	"context"
	"fmt"
)

// SSLMode controls whether TLS is negotiated when connecting.
type SSLMode int

const (
	// SSLDisable never attempts TLS.
	SSLDisable SSLMode = iota

	// SSLRequire fails the connect step if TLS cannot be negotiated.
	SSLRequire
)

// String returns the libpq sslmode keyword for the mode.
func (m SSLMode) String() string {
	if m == SSLRequire {
		return "require"
	}
	return "disable"
}

// ParseSSLMode maps a libpq sslmode keyword onto an SSLMode. Only the two
// supported keywords are accepted; the empty string means disable.
func ParseSSLMode(s string) (SSLMode, error) {
	switch s {
	case "", "disable":
		return SSLDisable, nil
	case "require":
		return SSLRequire, nil
	default:
		return SSLDisable, fmt.Errorf("unsupported ssl mode %q (want disable or require)", s)
	}
}

type (
	// Queryer is the operation subset shared by sessions and transactions.
	Queryer interface {
		// Exec runs sql, which may contain multiple statements when no
		// arguments are given.
		Exec(ctx context.Context, sql string, args ...any) error

		// Query runs sql and returns the resulting rows. The caller must
		// close them.
		Query(ctx context.Context, sql string, args ...any) (Rows, error)
	}

	// Session is an exclusively-owned database connection. It is not safe
	// for concurrent use; the upgrade engine never shares one.
	Session interface {
		Queryer

		// Begin starts a transaction.
		Begin(ctx context.Context) (Tx, error)

		// Close releases the connection.
		Close(ctx context.Context) error
	}

	// Tx is an open transaction on a Session.
	Tx interface {
		Queryer

		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// Rows is a minimal result-set cursor, satisfied by pgx.Rows directly
	// and by an adapter around sql.Rows.
	Rows interface {
		Next() bool
		Scan(dest ...any) error
		Err() error
		Close()
	}

	// ConnectionError indicates a transport or authentication failure while
	// establishing or verifying the connection.
	ConnectionError struct {
		Err error
	}
)

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
