package postgres

import (
	"context"
	"database/sql"

	// Registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"
)

type (
	sqlSession struct {
		db   *sql.DB
		conn *sql.Conn
	}

	sqlTx struct {
		tx *sql.Tx
	}

	sqlRows struct {
		rows *sql.Rows
	}
)

// ConnectBlocking establishes a blocking session over database/sql with the
// lib/pq driver. Each database operation is a blocking call on the calling
// goroutine's thread. A single dedicated connection is checked out for the
// session's lifetime.
func ConnectBlocking(target Target, mode SSLMode) (Session, error) {
	dsn, err := target.DSN()
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	db, err := sql.Open("postgres", withSSLMode(dsn, mode))
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, &ConnectionError{Err: err}
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, &ConnectionError{Err: err}
	}

	return &sqlSession{db: db, conn: conn}, nil
}

func (s *sqlSession) Exec(ctx context.Context, query string, args ...any) error {
	_, err := s.conn.ExecContext(ctx, query, args...)
	return err
}

func (s *sqlSession) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

func (s *sqlSession) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

func (s *sqlSession) Close(context.Context) error {
	err := s.conn.Close()
	if dbErr := s.db.Close(); err == nil {
		err = dbErr
	}
	return err
}

func (t *sqlTx) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

func (t *sqlTx) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

func (t *sqlTx) Commit(context.Context) error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback(context.Context) error {
	return t.tx.Rollback()
}

func (r *sqlRows) Next() bool {
	return r.rows.Next()
}

func (r *sqlRows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r *sqlRows) Err() error {
	return r.rows.Err()
}

func (r *sqlRows) Close() {
	_ = r.rows.Close()
}
