package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type (
	pgxSession struct {
		conn *pgx.Conn
	}

	pgxTx struct {
		tx pgx.Tx
	}
)

// Connect establishes a cooperative session on a single native pgx
// connection. Database I/O suspends the calling goroutine until the
// operation completes; nothing runs on a separate thread of control.
//
// The session uses the simple query protocol so that a step's SQL body may
// contain multiple statements, matching the blocking strategy's semantics.
func Connect(ctx context.Context, target Target, mode SSLMode) (Session, error) {
	dsn, err := target.DSN()
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	cfg, err := pgx.ParseConfig(withSSLMode(dsn, mode))
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	cfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, &ConnectionError{Err: err}
	}

	return &pgxSession{conn: conn}, nil
}

func (s *pgxSession) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := s.conn.Exec(ctx, sql, args...)
	return err
}

func (s *pgxSession) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rows, err := s.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *pgxSession) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxTx{tx: tx}, nil
}

func (s *pgxSession) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

func (t *pgxTx) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := t.tx.Exec(ctx, sql, args...)
	return err
}

func (t *pgxTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rows, err := t.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (t *pgxTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgxTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
