package upgrader

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/pgupgrader/pgupgrader/pkg/integrity"
	"github.com/pgupgrader/pgupgrader/pkg/loader"
	"github.com/pgupgrader/pgupgrader/pkg/postgres"
	"github.com/pgupgrader/pgupgrader/pkg/tracker"
)

// SqlExecutionError indicates a step's SQL failed inside its transaction.
// The transaction is rolled back, so neither the step's effects nor its
// ledger row survive.
type SqlExecutionError struct {
	FileID     int
	UpgraderID int
	Err        error
}

func (e *SqlExecutionError) Error() string {
	return fmt.Sprintf("step %d:%d: executing sql: %v", e.FileID, e.UpgraderID, e.Err)
}

func (e *SqlExecutionError) Unwrap() error { return e.Err }

// Upgrade loads the step sequence at path and applies every pending step to
// target over a cooperative connection. The context covers the whole run,
// including connection setup.
func Upgrade(ctx context.Context, path string, target postgres.Target, opts Options) error {
	seq, err := loader.Load(path)
	if err != nil {
		return err
	}

	sess, err := postgres.Connect(ctx, target, opts.SSLMode())
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	return run(ctx, sess, seq, opts)
}

// UpgradeBlocking is Upgrade over a blocking database/sql connection, for
// callers without a context to thread through.
func UpgradeBlocking(path string, target postgres.Target, opts Options) error {
	ctx := context.Background()

	seq, err := loader.Load(path)
	if err != nil {
		return err
	}

	sess, err := postgres.ConnectBlocking(target, opts.SSLMode())
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	return run(ctx, sess, seq, opts)
}

// run applies the shared upgrade protocol on an open session: activate the
// schema, bootstrap the ledger, validate history, then apply each pending
// step in its own transaction. Validation completes before any step runs.
func run(ctx context.Context, sess postgres.Session, seq loader.Sequence, opts Options) error {
	if opts.CreateSchema() && opts.Schema() == "" {
		return errors.New("create-schema requires a schema name")
	}

	ledger := tracker.New(opts.Schema())

	if opts.Schema() != "" {
		if err := ledger.EnsureSchema(ctx, sess, opts.CreateSchema()); err != nil {
			return err
		}
		sql := fmt.Sprintf("SET search_path TO %s", postgres.QuoteIdentifier(opts.Schema()))
		if err := sess.Exec(ctx, sql); err != nil {
			return errors.Wrapf(err, "setting search path to %q", opts.Schema())
		}
	}

	if err := ledger.Init(ctx, sess); err != nil {
		return err
	}

	applied, err := ledger.LoadApplied(ctx, sess)
	if err != nil {
		return err
	}

	pending, err := integrity.Validate(seq, applied)
	if err != nil {
		return err
	}

	for _, step := range pending {
		if err := applyStep(ctx, sess, ledger, step, opts); err != nil {
			return err
		}
	}
	return nil
}

// applyStep runs one step and its ledger row in a single transaction, with
// the ledger table held in exclusive mode so concurrent upgraders serialize.
func applyStep(ctx context.Context, sess postgres.Session, ledger *tracker.Ledger, step loader.Step, opts Options) error {
	tx, err := sess.Begin(ctx)
	if err != nil {
		return errors.Wrapf(err, "beginning transaction for step %d:%d", step.FileID, step.UpgraderID)
	}

	if err := ledger.Lock(ctx, tx); err != nil {
		tx.Rollback(ctx)
		return err
	}

	if err := tx.Exec(ctx, opts.SubstituteSchema(step.Text)); err != nil {
		tx.Rollback(ctx)
		return &SqlExecutionError{FileID: step.FileID, UpgraderID: step.UpgraderID, Err: err}
	}

	if err := ledger.Append(ctx, tx, step); err != nil {
		tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrapf(err, "committing step %d:%d", step.FileID, step.UpgraderID)
	}
	return nil
}
