package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/pgupgrader/pgupgrader/pkg/loader"
	"github.com/pgupgrader/pgupgrader/pkg/postgres"
	"github.com/pkg/errors"
)

// ledgerTable is the name of the table tracking applied steps. The dollar
// signs keep it out of the way of application tables.
const ledgerTable = "$upgraders$"

// bootstrapLockID serializes concurrent CREATE TABLE IF NOT EXISTS attempts
// across processes via a transaction-scoped advisory lock.
const bootstrapLockID int64 = 42004200

type (
	// Record is one persisted ledger row: the identity key and content of an
	// applied step, plus when it was applied.
	Record struct {
		FileID      int
		UpgraderID  int
		Description string
		Text        string
		AppliedOn   time.Time
	}

	// Ledger accesses the ledger table, optionally inside a named schema.
	Ledger struct {
		schema string
	}

	// SchemaCreationError indicates the configured schema is missing and
	// creation was not permitted, or that creating it failed.
	SchemaCreationError struct {
		Schema string
		Err    error
	}

	// LedgerWriteError indicates the ledger insert for a step failed. It is
	// fatal: the surrounding transaction is rolled back together with the
	// step's DDL.
	LedgerWriteError struct {
		FileID     int
		UpgraderID int
		Err        error
	}
)

func (e *SchemaCreationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("schema %q does not exist and create-schema is not set", e.Schema)
	}
	return fmt.Sprintf("failed to create schema %q: %v", e.Schema, e.Err)
}

func (e *SchemaCreationError) Unwrap() error { return e.Err }

func (e *LedgerWriteError) Error() string {
	return fmt.Sprintf("failed to record step %d:%d in ledger: %v", e.FileID, e.UpgraderID, e.Err)
}

func (e *LedgerWriteError) Unwrap() error { return e.Err }

// New returns a Ledger for the given schema. An empty schema targets the
// session's default search path.
func New(schema string) *Ledger {
	return &Ledger{schema: schema}
}

// tableName returns the quoted, optionally schema-qualified ledger table.
func (l *Ledger) tableName() string {
	if l.schema == "" {
		return postgres.QuoteIdentifier(ledgerTable)
	}
	return postgres.QuoteIdentifier(l.schema) + "." + postgres.QuoteIdentifier(ledgerTable)
}

// EnsureSchema verifies that the configured schema exists, creating it when
// create is set. It is a no-op when no schema is configured.
func (l *Ledger) EnsureSchema(ctx context.Context, sess postgres.Session, create bool) error {
	if l.schema == "" {
		return nil
	}

	rows, err := sess.Query(ctx, "SELECT 1 FROM information_schema.schemata WHERE schema_name = $1", l.schema)
	if err != nil {
		return errors.Wrapf(err, "failed to check for schema %q", l.schema)
	}
	exists := rows.Next()
	rows.Close()
	if err := rows.Err(); err != nil {
		return errors.Wrapf(err, "failed to check for schema %q", l.schema)
	}

	if exists {
		return nil
	}
	if !create {
		return &SchemaCreationError{Schema: l.schema}
	}

	if err := sess.Exec(ctx, "CREATE SCHEMA "+postgres.QuoteIdentifier(l.schema)); err != nil {
		return &SchemaCreationError{Schema: l.schema, Err: err}
	}
	return nil
}

// Init creates the ledger table if it does not exist. The create runs in its
// own transaction under an advisory lock so that concurrent invocations
// against the same database serialize instead of racing the DDL.
func (l *Ledger) Init(ctx context.Context, sess postgres.Session) error {
	tx, err := sess.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to start bootstrap transaction")
	}

	if err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", bootstrapLockID); err != nil {
		_ = tx.Rollback(ctx)
		return errors.Wrap(err, "failed to acquire advisory lock")
	}

	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			file_id INT,
			upgrader_id INT,
			description VARCHAR(500),
			text TEXT,
			applied_on TIMESTAMPTZ,
			PRIMARY KEY (file_id, upgrader_id)
		)`, l.tableName())

	if err := tx.Exec(ctx, createSQL); err != nil {
		_ = tx.Rollback(ctx)
		return errors.Wrap(err, "failed to create ledger table")
	}

	return errors.Wrap(tx.Commit(ctx), "failed to commit bootstrap transaction")
}

// Lock takes an exclusive lock on the ledger table for the duration of tx,
// excluding concurrent appliers from interleaving with this step.
func (l *Ledger) Lock(ctx context.Context, tx postgres.Tx) error {
	return errors.Wrap(
		tx.Exec(ctx, fmt.Sprintf("LOCK TABLE %s IN EXCLUSIVE MODE", l.tableName())),
		"failed to lock ledger table",
	)
}

// LoadApplied reads every ledger row ordered by (file_id, upgrader_id).
func (l *Ledger) LoadApplied(ctx context.Context, q postgres.Queryer) ([]Record, error) {
	selectSQL := fmt.Sprintf(
		"SELECT file_id, upgrader_id, description, text, applied_on FROM %s ORDER BY file_id, upgrader_id",
		l.tableName(),
	)

	rows, err := q.Query(ctx, selectSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load applied steps")
	}
	defer rows.Close()

	var applied []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.FileID, &rec.UpgraderID, &rec.Description, &rec.Text, &rec.AppliedOn); err != nil {
			return nil, errors.Wrap(err, "failed to scan ledger row")
		}
		applied = append(applied, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate ledger rows")
	}

	return applied, nil
}

// Append inserts the ledger row for a step. Must run inside the same
// transaction that executed the step's SQL.
func (l *Ledger) Append(ctx context.Context, tx postgres.Tx, step loader.Step) error {
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (file_id, upgrader_id, description, text, applied_on) VALUES ($1, $2, $3, $4, now())",
		l.tableName(),
	)

	if err := tx.Exec(ctx, insertSQL, step.FileID, step.UpgraderID, step.Description, step.Text); err != nil {
		return &LedgerWriteError{FileID: step.FileID, UpgraderID: step.UpgraderID, Err: err}
	}
	return nil
}
