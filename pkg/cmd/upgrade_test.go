package cmd

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgupgrader/pgupgrader/pkg/cmd/testutil"
	"github.com/pgupgrader/pgupgrader/pkg/postgres"
)

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	return Run(context.Background(), Version{Version: "test"}, append([]string{"pgupgrader"}, args...))
}

// queryInt runs a single-value count query against dsn.
func queryInt(t *testing.T, dsn, query string) int {
	t.Helper()

	ctx := context.Background()
	sess, err := postgres.Connect(ctx, postgres.Target{ConnString: dsn}, postgres.SSLDisable)
	require.NoError(t, err)
	defer sess.Close(ctx)

	rows, err := sess.Query(ctx, query)
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var n int
	require.NoError(t, rows.Scan(&n))
	return n
}

// ledgerCount counts the rows recorded in the ledger table, optionally
// schema-qualified.
func ledgerCount(t *testing.T, dsn, schema string) int {
	t.Helper()

	table := postgres.QuoteIdentifier("$upgraders$")
	if schema != "" {
		table = postgres.QuoteIdentifier(schema) + "." + table
	}

	return queryInt(t, dsn, fmt.Sprintf("SELECT count(*) FROM %s", table))
}

func TestUpgradeCommand_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testutil.SkipIfNoDocker(t)

	_, dsn := testutil.StartPostgresContainer(t)
	dir := t.TempDir()

	testutil.WriteUpgradeFile(t, dir, "000_users.sql", `--- 0: create users
CREATE TABLE users (id INT PRIMARY KEY, name TEXT);
--- 1: index users
CREATE INDEX users_name ON users (name);
`)
	testutil.WriteUpgradeFile(t, dir, "001_posts.sql", `--- 0: create posts
CREATE TABLE posts (id INT PRIMARY KEY, user_id INT REFERENCES users (id));
`)

	require.NoError(t, runCLI(t, "upgrade", "--path", dir, "--url", dsn))
	require.Equal(t, 3, ledgerCount(t, dsn, ""))

	// The DDL actually took effect, not just the ledger rows.
	require.Equal(t, 1, queryInt(t, dsn,
		"SELECT count(*) FROM information_schema.columns WHERE table_name = 'users' AND column_name = 'name'"))
	require.Equal(t, 1, queryInt(t, dsn,
		"SELECT count(*) FROM pg_indexes WHERE indexname = 'users_name'"))

	// A rerun with nothing pending applies nothing.
	require.NoError(t, runCLI(t, "upgrade", "--path", dir, "--url", dsn))
	require.Equal(t, 3, ledgerCount(t, dsn, ""))

	// New files extend the sequence; only the new steps run.
	testutil.WriteUpgradeFile(t, dir, "002_comments.sql", `--- 0: create comments
CREATE TABLE comments (id INT PRIMARY KEY, post_id INT REFERENCES posts (id));
`)
	require.NoError(t, runCLI(t, "upgrade", "--path", dir, "--url", dsn))
	require.Equal(t, 4, ledgerCount(t, dsn, ""))

	// Editing an applied file is caught before anything executes.
	testutil.WriteUpgradeFile(t, dir, "000_users.sql", `--- 0: create users
CREATE TABLE users (id BIGINT PRIMARY KEY, name TEXT);
--- 1: index users
CREATE INDEX users_name ON users (name);
`)
	err := runCLI(t, "upgrade", "--path", dir, "--url", dsn)
	require.ErrorContains(t, err, "has changed since it was applied")
	require.Equal(t, 4, ledgerCount(t, dsn, ""))
}

func TestUpgradeCommand_FailureResume_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testutil.SkipIfNoDocker(t)

	_, dsn := testutil.StartPostgresContainer(t)
	dir := t.TempDir()

	testutil.WriteUpgradeFile(t, dir, "000_init.sql", `--- 0: create accounts
CREATE TABLE accounts (id INT PRIMARY KEY);
--- 1: broken step
CREATE TABL oops;
`)

	err := runCLI(t, "upgrade", "--path", dir, "--url", dsn)
	require.Error(t, err)

	// The first step committed; the failed one left no ledger row.
	require.Equal(t, 1, ledgerCount(t, dsn, ""))

	// Fixing the broken step resumes from where the failure happened.
	testutil.WriteUpgradeFile(t, dir, "000_init.sql", `--- 0: create accounts
CREATE TABLE accounts (id INT PRIMARY KEY);
--- 1: broken step
CREATE TABLE fixed (id INT PRIMARY KEY);
`)
	require.NoError(t, runCLI(t, "upgrade", "--path", dir, "--url", dsn))
	require.Equal(t, 2, ledgerCount(t, dsn, ""))
}

func TestUpgradeCommand_Schema_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testutil.SkipIfNoDocker(t)

	_, dsn := testutil.StartPostgresContainer(t)
	dir := t.TempDir()

	testutil.WriteUpgradeFile(t, dir, "000_init.sql", `--- 0: create widgets
CREATE TABLE widgets (id INT PRIMARY KEY);
--- 1: grant schema usage
GRANT USAGE ON SCHEMA {{SCHEMA}} TO PUBLIC;
`)

	// Without --create-schema a missing schema is an error.
	err := runCLI(t, "upgrade", "--path", dir, "--url", dsn, "--schema", "tenant_a")
	require.ErrorContains(t, err, "does not exist")

	require.NoError(t, runCLI(t, "upgrade", "--path", dir, "--url", dsn, "--schema", "tenant_a", "--create-schema"))
	require.Equal(t, 2, ledgerCount(t, dsn, "tenant_a"))

	// A second schema gets its own independent ledger.
	require.NoError(t, runCLI(t, "upgrade", "--path", dir, "--url", dsn, "--schema", "tenant_b", "--create-schema"))
	require.Equal(t, 2, ledgerCount(t, dsn, "tenant_b"))
	require.Equal(t, 2, ledgerCount(t, dsn, "tenant_a"))
}

func TestUpgradeCommand_Blocking_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testutil.SkipIfNoDocker(t)

	_, dsn := testutil.StartPostgresContainer(t)
	dir := t.TempDir()

	testutil.WriteUpgradeFile(t, dir, "000_init.sql", `--- 0: create gadgets
CREATE TABLE gadgets (id INT PRIMARY KEY);
`)

	require.NoError(t, runCLI(t, "upgrade", "--path", dir, "--url", dsn, "--blocking"))
	require.Equal(t, 1, ledgerCount(t, dsn, ""))

	// Strategies share one ledger; the cooperative path sees the
	// blocking path's work.
	require.NoError(t, runCLI(t, "upgrade", "--path", dir, "--url", dsn))
	require.Equal(t, 1, ledgerCount(t, dsn, ""))
}

func TestUpgradeCommand_InvalidDirectory(t *testing.T) {
	err := runCLI(t, "upgrade", "--path", "/nonexistent/upgrades", "--url", "postgres://localhost/x")
	require.Error(t, err)
}

func TestUpgradeCommand_BadSSLMode(t *testing.T) {
	err := runCLI(t, "upgrade", "--path", t.TempDir(), "--url", "postgres://localhost/x", "--ssl-mode", "verify-ca")
	require.ErrorContains(t, err, "unsupported ssl mode")
}
