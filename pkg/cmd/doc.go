// Package cmd implements the pgupgrader command line interface.
//
// Two commands are exposed: upgrade, which applies pending schema upgrade
// steps to a PostgreSQL database, and check-connection, which verifies that
// the connection settings actually reach a database. Connection settings
// come from flags, with DATABASE_URL and PGPASSWORD honored as the
// conventional environment fallbacks, and project defaults read from
// pgupgrader.yaml when present.
package cmd
