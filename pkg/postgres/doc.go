// Package postgres abstracts the database operations the upgrade engine
// needs (connect, begin, execute, query, commit, rollback) behind a single
// Session protocol with two interchangeable implementations.
//
// Connect returns a cooperative session backed by a native pgx connection:
// every operation takes a context and suspends the calling goroutine only at
// I/O boundaries. ConnectBlocking returns a session backed by database/sql
// and the lib/pq driver, where each operation is a blocking driver call. The
// two expose identical operations and error semantics, so everything above
// them is written once and is strategy-agnostic.
//
// Both strategies hold exactly one connection for the lifetime of the
// session; no pooling happens here.
package postgres
